package modstack

import (
	"strconv"

	"github.com/arthur-debert/modstack/pkg/commands"
	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/spf13/cobra"
)

func newOrderCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "order",
		Short:   MsgOrderShort,
		Long:    MsgOrderLong,
		GroupID: "core",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgOrderListShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			printOut(cmd, opts.renderer(cmd).LoadOrder(app.Store.Snapshot().Order))
			return nil
		},
	}

	sync := &cobra.Command{
		Use:   "sync",
		Short: MsgOrderSyncShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			// loading already synced and saved; report what it found
			report := app.Synced
			if !report.Changed() {
				if report, err = app.SyncOrder(); err != nil {
					return err
				}
			}
			if !report.Changed() {
				printOut(cmd, MsgNoChanges)
				return nil
			}
			printOut(cmd, opts.renderer(cmd).SyncReport(report))
			return nil
		},
	}

	enable := &cobra.Command{
		Use:               "enable <package>...",
		Short:             MsgEnableShort,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: opts.packageNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.editOrder(cmd, commands.Enable(args...))
		},
	}

	disable := &cobra.Command{
		Use:               "disable <package>...",
		Short:             MsgDisableShort,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: opts.packageNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.editOrder(cmd, commands.Disable(args...))
		},
	}

	move := &cobra.Command{
		Use:               "move <package> <position>",
		Short:             MsgMoveShort,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: opts.packageNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 0 {
				return errors.Newf(errors.ErrInvalidInput, "invalid position %q", args[1])
			}
			return opts.editOrder(cmd, commands.Move(args[0], pos))
		},
	}

	var at int
	separator := &cobra.Command{
		Use:   "separator <label>",
		Short: MsgSeparatorShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.editOrder(cmd, commands.AddSeparator(args[0], at))
		},
	}
	separator.Flags().IntVar(&at, "at", -1, MsgFlagAt)

	cmd.AddCommand(list, sync, enable, disable, move, separator)
	return cmd
}

// editOrder applies edits, saves and prints the resulting order
func (o *globalOptions) editOrder(cmd *cobra.Command, edits ...commands.OrderEdit) error {
	app, err := o.app()
	if err != nil {
		return err
	}
	if err := app.EditOrder(edits...); err != nil {
		return err
	}
	printOut(cmd, o.renderer(cmd).LoadOrder(app.Store.Snapshot().Order))
	return nil
}
