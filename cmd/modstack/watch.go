package modstack

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/arthur-debert/modstack/pkg/commands"
	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/queue"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var deploy bool
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app()
			if err != nil {
				return err
			}
			r := opts.renderer(cmd)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// callbacks arrive from several goroutines
			var mu sync.Mutex
			emit := func(s string) {
				mu.Lock()
				defer mu.Unlock()
				printOut(cmd, s)
			}

			err = app.Watch(ctx, commands.WatchOptions{
				Deploy: deploy,
				OnConflicts: func(res *conflicts.Result) {
					emit(r.Conflicts(res))
				},
				OnReload: func(rep loadorder.SyncReport) {
					if rep.Changed() {
						emit(r.SyncReport(rep))
					}
				},
				OnCommand: func(o queue.Outcome) {
					if o.Err != nil {
						emit(r.Markup(fmt.Sprintf("[error]"+MsgCommandFailed+"[/error]", o.Key, o.Err)))
						return
					}
					if o.Coalesced > 0 {
						emit(fmt.Sprintf(MsgCommandCoalesced, o.Key, o.Coalesced+1))
					}
				},
			})
			if err != nil {
				return err
			}
			printOut(cmd, MsgWatchStopped)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&deploy, "deploy", "d", false, MsgFlagDeploy)
	return cmd
}
