package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/frahmantamala/ontology-client/internal/concept"
	"github.com/spf13/cobra"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "Browse the concept hierarchy",
}

var (
	treeMaxDepth int
	treeJSON     bool
	moveToRoot   bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the concept forest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			forest, err := app.Concepts.Tree(ctx, treeMaxDepth)
			if err != nil {
				return err
			}
			if treeJSON {
				return printJSON(cmd.OutOrStdout(), forest)
			}
			printForest(cmd.OutOrStdout(), forest, 0)
			return nil
		})
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <id>",
	Short: "Print the ancestor chain of a concept, root first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			chain, err := app.Concepts.Path(ctx, id)
			if err != nil {
				return err
			}
			paths := make([]string, len(chain))
			for i, c := range chain {
				paths[i] = c.Path
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(paths, " > "))
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count concepts per tree level",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			stats, err := app.Concepts.Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> [parent-id]",
	Short: "Re-parent a concept",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var parent *int64
		switch {
		case len(args) == 2 && moveToRoot:
			return fmt.Errorf("parent-id and --root are mutually exclusive")
		case len(args) == 2:
			p, err := parseID(args[1])
			if err != nil {
				return err
			}
			parent = &p
		case !moveToRoot:
			return fmt.Errorf("either parent-id or --root is required")
		}

		return withApp(cmd, func(ctx context.Context, app *Dependencies) error {
			moved, err := app.Concepts.Move(ctx, id, parent)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), moved)
		})
	},
}

func printForest(w io.Writer, forest []*concept.TreeConcept, level int) {
	for _, n := range forest {
		fmt.Fprintf(w, "%s%s (#%d)\n", strings.Repeat("  ", level), n.Path, n.ID)
		printForest(w, n.Children, level+1)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid concept id %q", s)
	}
	return id, nil
}

func init() {
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", -1, "deepest level to print; negative prints all")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "print as JSON")
	moveCmd.Flags().BoolVar(&moveToRoot, "root", false, "make the concept a root")

	conceptsCmd.AddCommand(treeCmd, pathCmd, statsCmd, moveCmd)
}
