package commands

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/queue"
	"github.com/arthur-debert/modstack/pkg/watch"
	"golang.org/x/sync/errgroup"
)

// ReloadKey identifies re-deploy requests in the command queue
const ReloadKey = "reload"

// WatchOptions configures Watch
type WatchOptions struct {
	// Deploy re-deploys after every change that reached the store
	Deploy bool
	// OnConflicts receives each recomputed override graph
	OnConflicts func(*conflicts.Result)
	// OnReload receives each on-disk change picked up by the store
	OnReload func(loadorder.SyncReport)
	// OnCommand receives the outcome of each queued re-deploy
	OnCommand func(queue.Outcome)
}

// Watch follows the load order file, the package root and the files inside
// each package until ctx is done, recomputing conflicts after each change. Queued re-deploys that are
// still pending when ctx ends run before Watch returns.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	q := queue.New(queue.Options{
		Settle:     a.Config.Queue.Settle,
		Context:    context.WithoutCancel(ctx),
		OnFinished: opts.OnCommand,
	})
	defer q.Close()

	worker := watch.NewWorker(a.Store, a.ConflictEngine, watch.WorkerOptions{
		Debounce: a.Config.Watch.Debounce,
		OnResult: opts.OnConflicts,
		OnError: func(err error) {
			a.logger.Error().Err(err).Msg("Conflict computation failed")
		},
	})

	redeploy := func() {
		if !opts.Deploy {
			return
		}
		err := q.Submit(ReloadKey, func(ctx context.Context) error {
			_, err := a.Reload(ctx)
			return err
		})
		if err != nil {
			a.logger.Warn().Err(err).Msg("Re-deploy not queued")
		}
	}

	fw, err := watch.NewFileWatcher(a.FS, a.Store, watch.FileWatcherOptions{
		PackageRoot: a.Overlay.Context().PackageRoot(),
		Debounce:    a.Config.Watch.Debounce,
		OnReload: func(report loadorder.SyncReport) {
			if opts.OnReload != nil {
				opts.OnReload(report)
			}
			redeploy()
		},
		OnPackagesChanged: func(names []string) {
			worker.MarkChanged(names...)
			redeploy()
		},
	})
	if err != nil {
		return err
	}

	a.logger.Info().
		Str("load_order", a.Store.Path()).
		Bool("deploy", opts.Deploy).
		Msg("Watching for changes")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreCanceled(worker.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(fw.Run(gctx)) })
	return g.Wait()
}

func ignoreCanceled(err error) error {
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
