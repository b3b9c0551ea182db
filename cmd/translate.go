package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var (
	translateLanguage int64
	translateParams   []string
	translateMissing  bool
	translatePrefix   string
)

var translateCmd = &cobra.Command{
	Use:   "translate [key]...",
	Short: "Look up translations by concept path",
	Args: func(cmd *cobra.Command, args []string) error {
		if translatePrefix == "" && len(args) == 0 {
			return fmt.Errorf("requires at least one key or --prefix")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		params := make(map[string]string, len(translateParams))
		for _, p := range translateParams {
			name, value, ok := strings.Cut(p, "=")
			if !ok {
				return fmt.Errorf("invalid param %q, expected name=value", p)
			}
			params[name] = value
		}

		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			m, err := app.Translations.Translations(ctx, translateLanguage)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if translatePrefix != "" {
				scoped := m.WithPrefix(translatePrefix)
				keys := make([]string, 0, len(scoped))
				for k := range scoped {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				args = append(keys, args...)
			}
			if translateMissing {
				for _, key := range m.Missing(args) {
					fmt.Fprintln(out, key)
				}
				return nil
			}
			for _, key := range args {
				fmt.Fprintf(out, "%s\t%s\n", key, m.TParams(key, params, ""))
			}
			return nil
		})
	},
}

func init() {
	translateCmd.Flags().Int64VarP(&translateLanguage, "language", "l", 0, "language id; 0 uses the configured default")
	translateCmd.Flags().StringArrayVarP(&translateParams, "param", "p", nil, "interpolation value as name=value, repeatable")
	translateCmd.Flags().StringVar(&translatePrefix, "prefix", "", "also print every key under this path prefix")
	translateCmd.Flags().BoolVar(&translateMissing, "missing", false, "print only keys with no translation")
}
