package modstack

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "install <directory>",
		Short:   MsgInstallShort,
		GroupID: "packages",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Install(cmd.Context(), source)
			if res == nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgInstalledFormat, res.Name)
			if res.Redeploy != nil {
				printOut(cmd, opts.renderer(cmd).Deploy(res.Redeploy))
			}
			return err
		},
	}
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <package>",
		Aliases:           []string{"rm"},
		Short:             MsgRemoveShort,
		GroupID:           "packages",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: opts.packageNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Remove(cmd.Context(), args[0])
			if res == nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgRemovedFormat, res.Name)
			if res.Redeploy != nil {
				printOut(cmd, opts.renderer(cmd).Deploy(res.Redeploy))
			}
			return err
		},
	}
}

func newRenameCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "rename <package> <new-name>",
		Aliases:           []string{"mv"},
		Short:             MsgRenameShort,
		GroupID:           "packages",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: opts.packageNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			res, err := app.Rename(cmd.Context(), args[0], args[1])
			if res == nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgRenamedFormat, args[0], res.Name)
			if res.Redeploy != nil {
				printOut(cmd, opts.renderer(cmd).Deploy(res.Redeploy))
			}
			return err
		},
	}
}
