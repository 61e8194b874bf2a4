package watch

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after a change before recomputing
const DefaultDebounce = 80 * time.Millisecond

// CycleStatus describes what one evaluation did
type CycleStatus int

const (
	// Computed means a fresh result was published
	Computed CycleStatus = iota
	// Skipped means a multi-step edit was open
	Skipped
	// Stale means the order changed while computing
	Stale
)

func (s CycleStatus) String() string {
	switch s {
	case Computed:
		return "computed"
	case Skipped:
		return "skipped"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// WorkerOptions configures a Worker
type WorkerOptions struct {
	Debounce time.Duration
	// OnResult receives every published result
	OnResult func(*conflicts.Result)
	// OnError receives computation failures
	OnError func(error)
}

// Worker recomputes the override graph when the load order changes
type Worker struct {
	store    *loadorder.Store
	engine   *conflicts.Engine
	debounce time.Duration
	onResult func(*conflicts.Result)
	onError  func(error)
	logger   zerolog.Logger
	kick     chan struct{}

	mu      sync.Mutex
	latest  *conflicts.Result
	changed map[string]bool
}

// NewWorker creates a worker for store
func NewWorker(store *loadorder.Store, engine *conflicts.Engine, opts WorkerOptions) *Worker {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Worker{
		store:    store,
		engine:   engine,
		debounce: debounce,
		onResult: opts.OnResult,
		onError:  opts.OnError,
		logger:   logging.GetLogger("watch.worker"),
		kick:     make(chan struct{}, 1),
		changed:  make(map[string]bool),
	}
}

// Latest returns the last published result, nil before the first one
func (w *Worker) Latest() *conflicts.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// MarkChanged records packages whose contents changed on disk and
// schedules a recomputation
func (w *Worker) MarkChanged(names ...string) {
	w.mu.Lock()
	for _, name := range names {
		w.changed[name] = true
	}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *Worker) takeChanged() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.changed))
	for name := range w.changed {
		names = append(names, name)
	}
	w.changed = make(map[string]bool)
	return names
}

func (w *Worker) restoreChanged(names []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, name := range names {
		w.changed[name] = true
	}
}

// Evaluate runs one cycle against the current snapshot
func (w *Worker) Evaluate(ctx context.Context) (CycleStatus, error) {
	snap := w.store.Snapshot()
	if snap.InProgress {
		w.logger.Debug().Uint64("version", snap.Version).Msg("Load order mid-edit, skipping cycle")
		return Skipped, nil
	}

	changed := w.takeChanged()
	prev := w.Latest()

	result, err := w.engine.ComputeIncremental(ctx, snap.Order, prev, changed)
	if err != nil {
		w.restoreChanged(changed)
		return Computed, err
	}

	if now := w.store.Snapshot(); now.Version != snap.Version || now.InProgress {
		w.logger.Debug().
			Uint64("computed", snap.Version).
			Uint64("current", now.Version).
			Msg("Load order changed during computation, discarding result")
		// file sets of changed packages are already rescanned, but the
		// graph was not published, so keep them marked
		w.restoreChanged(changed)
		return Stale, nil
	}

	w.mu.Lock()
	w.latest = result
	w.mu.Unlock()

	w.logger.Debug().
		Uint64("version", snap.Version).
		Int("packages", len(result.Order)).
		Bool("conflicts", result.Graph.HasConflicts()).
		Msg("Override graph updated")

	if w.onResult != nil {
		w.onResult(result)
	}
	return Computed, nil
}

// Run computes once, then recomputes after every change until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	w.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.store.Changes():
		case <-w.kick:
		}

		if !w.settle(ctx) {
			return ctx.Err()
		}
		w.cycle(ctx)
	}
}

// settle waits until no change has arrived for the debounce period
func (w *Worker) settle(ctx context.Context) bool {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-w.store.Changes():
			timer.Reset(w.debounce)
		case <-w.kick:
			timer.Reset(w.debounce)
		case <-timer.C:
			return true
		}
	}
}

func (w *Worker) cycle(ctx context.Context) {
	status, err := w.Evaluate(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Conflict computation failed")
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	w.logger.Trace().Stringer("status", status).Msg("Cycle finished")
}
