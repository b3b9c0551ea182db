package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var permsCmd = &cobra.Command{
	Use:   "perms",
	Short: "Inspect the signed-in user's roles and permissions",
}

var accessScope string

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List roles with their permissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			roles, err := app.Auth.Session.RefreshRoles(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), roles)
		})
	},
}

var canCmd = &cobra.Command{
	Use:   "can <resource> <action>",
	Short: "Check a single permission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			perms := app.Auth.Permissions
			if err := perms.Initialize(ctx); err != nil {
				return err
			}
			allowed, err := perms.CanAccess(args[0], args[1], accessScope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), allowed)
			return nil
		})
	},
}

func init() {
	canCmd.Flags().StringVar(&accessScope, "scope", "", "required scope (own, team, all); empty matches any")

	permsCmd.AddCommand(rolesCmd, canCmd)
}
