// Package queue serializes deploy and restore requests and coalesces
// bursts of them.
//
// Commands are keyed by operation identity. Submitting a command whose key
// is already pending replaces it, so only the last requested variant runs.
// Pending commands run once no submission has arrived for the settle
// period, in the order their keys were first submitted, one at a time.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultSettle is the quiet period before pending commands run
const DefaultSettle = 300 * time.Millisecond

// RunFunc is the body of a command
type RunFunc func(ctx context.Context) error

// Outcome reports one executed command
type Outcome struct {
	Key string
	Err error
	// Coalesced counts earlier submissions of Key this run replaced
	Coalesced int
}

// Options configures a Queue
type Options struct {
	// Settle defaults to DefaultSettle
	Settle time.Duration
	// Context is passed to every command; defaults to context.Background
	Context context.Context
	// OnFinished, when set, is called after each command
	OnFinished func(Outcome)
}

type entry struct {
	key       string
	run       RunFunc
	coalesced int
}

// Queue is a debounced single-writer command queue
type Queue struct {
	settle     time.Duration
	ctx        context.Context
	onFinished func(Outcome)
	logger     zerolog.Logger

	mu      sync.Mutex
	pending map[string]*entry
	order   []string
	timer   *time.Timer
	closed  bool

	runMu   sync.Mutex
	running sync.WaitGroup
}

// New creates a queue
func New(opts Options) *Queue {
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Queue{
		settle:     settle,
		ctx:        ctx,
		onFinished: opts.OnFinished,
		logger:     logging.GetLogger("queue"),
		pending:    make(map[string]*entry),
	}
}

// Submit schedules run under key and restarts the settle timer
func (q *Queue) Submit(key string, run RunFunc) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errors.Newf(errors.ErrInvalidInput, "queue is closed, dropping %s", key)
	}

	if e, ok := q.pending[key]; ok {
		e.run = run
		e.coalesced++
		q.logger.Debug().Str("key", key).Int("coalesced", e.coalesced).Msg("Command coalesced")
	} else {
		q.pending[key] = &entry{key: key, run: run}
		q.order = append(q.order, key)
		q.logger.Debug().Str("key", key).Msg("Command queued")
	}

	if q.timer == nil {
		q.timer = time.AfterFunc(q.settle, q.fire)
	} else {
		q.timer.Reset(q.settle)
	}
	return nil
}

// Pending returns the number of commands waiting to run
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// takeLocked removes the pending batch. Callers hold mu.
func (q *Queue) takeLocked() []*entry {
	if len(q.order) == 0 {
		return nil
	}
	batch := make([]*entry, 0, len(q.order))
	for _, key := range q.order {
		batch = append(batch, q.pending[key])
	}
	q.pending = make(map[string]*entry)
	q.order = nil
	q.running.Add(1)
	return batch
}

func (q *Queue) fire() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	batch := q.takeLocked()
	q.mu.Unlock()

	if batch != nil {
		q.run(batch)
	}
}

func (q *Queue) run(batch []*entry) []Outcome {
	defer q.running.Done()
	q.runMu.Lock()
	defer q.runMu.Unlock()

	outcomes := make([]Outcome, 0, len(batch))
	for _, e := range batch {
		logger := q.logger.With().Str("key", e.key).Logger()
		done := logging.LogOperationStart(logger, e.key)
		err := e.run(q.ctx)
		done()

		if err != nil {
			logger.Error().Err(err).Msg("Command failed")
		}
		outcome := Outcome{Key: e.key, Err: err, Coalesced: e.coalesced}
		outcomes = append(outcomes, outcome)
		if q.onFinished != nil {
			q.onFinished(outcome)
		}
	}
	return outcomes
}

// Flush runs the pending commands now, without waiting for the timer
func (q *Queue) Flush() []Outcome {
	q.mu.Lock()
	if q.timer != nil {
		q.timer.Stop()
	}
	batch := q.takeLocked()
	q.mu.Unlock()

	if batch == nil {
		return nil
	}
	return q.run(batch)
}

// Close runs what is pending, waits for running commands and rejects
// further submissions
func (q *Queue) Close() []Outcome {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	outcomes := q.Flush()
	q.running.Wait()
	return outcomes
}
