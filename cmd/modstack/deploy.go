package modstack

import (
	"fmt"

	"github.com/arthur-debert/modstack/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDeployCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "deploy",
		Aliases: []string{"load"},
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			r := opts.renderer(cmd)
			if app.Synced.Changed() {
				printOut(cmd, r.SyncReport(app.Synced))
			}

			log.Info().
				Str("target", app.Overlay.Context().TargetRoot()).
				Msg("Deploying load order")

			res, err := app.Deploy(cmd.Context())
			if err != nil {
				return fmt.Errorf("deploy: %w", err)
			}
			printOut(cmd, r.Deploy(res))
			return nil
		},
	}
}

func newRestoreCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "restore",
		Aliases: []string{"unload"},
		Short:   MsgRestoreShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Restore(cmd.Context())
			if res != nil {
				printOut(cmd, opts.renderer(cmd).Restore(res))
			}
			if err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			return nil
		},
	}
}

func newReloadCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "reload",
		Short:   MsgReloadShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Reload(cmd.Context())
			if err != nil {
				return fmt.Errorf("reload: %w", err)
			}
			printOut(cmd, opts.renderer(cmd).Deploy(res))
			return nil
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Status()
			if err != nil {
				return err
			}
			printOut(cmd, opts.renderer(cmd).Status(style.Status{
				Active:      res.Active,
				Copied:      res.Copied,
				BackedUp:    res.BackedUp,
				Packages:    res.Packages,
				Enabled:     res.Enabled,
				TargetRoot:  res.TargetRoot,
				PackageRoot: res.PackageRoot,
			}))
			return nil
		},
	}
}

func newConflictsCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "conflicts",
		Short:   MsgConflictsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "yaml", "markdown":
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Conflicts(cmd.Context())
			if err != nil {
				return err
			}

			r := opts.renderer(cmd)
			switch format {
			case "yaml":
				data, err := yaml.Marshal(res.Report())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case "markdown":
				printOut(cmd, r.Markdown(style.ConflictsMarkdown(res), 100))
			default:
				printOut(cmd, r.Conflicts(res))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "yaml", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
