package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newNativeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "native <tool>...",
		Short: "Build tools for the build machine and print their install directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.logger.SetVerbosity(verbosity(cmd))
			keep, _ := cmd.Flags().GetBool("keep-session")
			dirs, err := c.app.Native(cmd.Context(), args, keep)
			if err != nil {
				return err
			}
			for _, dir := range dirs {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), dir); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Log subprocess output and diagnostics")
	cmd.Flags().BoolP("quiet", "q", false, "Log warnings and errors only")
	cmd.Flags().Bool("keep-session", false, "Keep the session directory")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}
