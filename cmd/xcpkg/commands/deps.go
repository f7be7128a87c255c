package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/engine/pipeline"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <package>",
		Short: "Print the install order and dependency closures of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, _ := cmd.Flags().GetString("target")
			target, err := domain.ParsePlatform(spec)
			if err != nil {
				return err
			}

			res, err := c.app.Deps(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dot, _ := cmd.Flags().GetBool("dot"); dot {
				_, err = out.Write(pipeline.DependencyGraph(res.Root, res.Closures[res.Root], res.Set))
				return err
			}
			for i, name := range res.Order {
				line := fmt.Sprintf("%d. %s", i+1, name)
				if f, ok := res.Set.Get(name); ok && f.Version != "" {
					line += " " + f.Version
				}
				if closure := res.Closures[name]; len(closure) > 0 {
					line += " [" + strings.Join(closure, " ") + "]"
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringP("target", "t", "", "Target platform as <os>-<version>-<arch>")
	cmd.Flags().Bool("dot", false, "Print the dependency graph in DOT format")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
