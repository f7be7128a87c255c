package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <package>...",
		Short: "Build and install packages for a target platform",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := installOptions(cmd)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := c.app.Install(cmd.Context(), name, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("target", "t", "", "Target platform as <os>-<version>-<arch>, e.g. iPhoneOS-12.0-arm64")
	cmd.Flags().BoolP("verbose", "v", false, "Log subprocess output and diagnostics")
	cmd.Flags().BoolP("quiet", "q", false, "Log warnings and errors only")
	cmd.Flags().BoolP("force", "f", false, "Rebuild packages that are already installed")
	cmd.Flags().Bool("dry-run", false, "Print the plan without building anything")
	cmd.Flags().IntP("jobs", "j", 0, "Build parallelism, defaults to XCPKG_JOBS or the CPU count")
	cmd.Flags().String("profile", string(domain.ProfileRelease), "Build profile, debug or release")
	cmd.Flags().Bool("static", false, "Prefer static libraries")
	cmd.Flags().Bool("keep-session", false, "Keep the session and working directories")
	cmd.Flags().Bool("export-compile-commands", false, "Install compile_commands.json alongside the package")
	_ = cmd.MarkFlagRequired("target")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}

func installOptions(cmd *cobra.Command) (domain.InstallOptions, error) {
	flags := cmd.Flags()

	spec, _ := flags.GetString("target")
	target, err := domain.ParsePlatform(spec)
	if err != nil {
		return domain.InstallOptions{}, err
	}

	profileName, _ := flags.GetString("profile")
	profile, err := domain.ParseProfile(profileName)
	if err != nil {
		return domain.InstallOptions{}, err
	}

	jobs, _ := flags.GetInt("jobs")
	if jobs < 0 {
		return domain.InstallOptions{}, zerr.With(zerr.Wrap(domain.ErrArgument, "jobs must not be negative"), "jobs", jobs)
	}

	opts := domain.InstallOptions{
		Target:  target,
		Jobs:    jobs,
		Profile: profile,
	}
	opts.Force, _ = flags.GetBool("force")
	opts.DryRun, _ = flags.GetBool("dry-run")
	opts.Static, _ = flags.GetBool("static")
	opts.KeepSession, _ = flags.GetBool("keep-session")
	opts.ExportCompileCommands, _ = flags.GetBool("export-compile-commands")
	opts.Verbosity = verbosity(cmd)
	return opts, nil
}

func verbosity(cmd *cobra.Command) domain.Verbosity {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		return domain.VerbosityDebug
	}
	if q, _ := cmd.Flags().GetBool("quiet"); q {
		return domain.VerbosityQuiet
	}
	return domain.VerbosityNormal
}
