package correlate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/match"
	"github.com/thinksmartgroup/Search-AI/internal/types"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultTimeout      = 30 * time.Second
)

// State is the waiter's position in its lifecycle.
type State string

const (
	StateDispatched State = "Dispatched"
	StatePolling    State = "Polling"
	StateResolved   State = "Resolved"
	StateTimedOut   State = "TimedOut"
)

// Outcome classifies how a wait ended.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeCanceled Outcome = "canceled"
)

// SnapshotSource is the read side of the callback sink.
type SnapshotSource interface {
	Snapshot() []types.CallbackRecord
	Grown() <-chan struct{}
}

// Options bounds a single wait.
type Options struct {
	// PollInterval is how often the snapshot is re-checked. Default 2s.
	PollInterval time.Duration

	// Timeout is the overall wait budget. Default 30s.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

// Waiter polls the sink for a record matching one query until it finds one
// or the timeout budget is spent. Single-use: one Waiter per dispatched
// query, and Wait may be called exactly once.
type Waiter struct {
	logger *zap.Logger
	source SnapshotSource
	query  types.Query
	opts   Options

	mu      sync.Mutex
	state   State
	started bool
}

// NewWaiter creates a Waiter in the Dispatched state.
func NewWaiter(source SnapshotSource, query types.Query, opts Options, logger *zap.Logger) *Waiter {
	if source == nil {
		panic("correlate: nil SnapshotSource")
	}
	return &Waiter{
		logger: logger.Named("waiter"),
		source: source,
		query:  query,
		opts:   opts.withDefaults(),
		state:  StateDispatched,
	}
}

// State returns the waiter's current lifecycle state.
func (w *Waiter) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Waiter) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Wait polls until a matching record arrives, the timeout budget elapses,
// or ctx is cancelled. It never returns an error for "no result": a timeout
// yields the not-found sentinel with OutcomeTimedOut, and cancellation
// yields the sentinel with OutcomeCanceled. The poll timer never leaks.
func (w *Waiter) Wait(ctx context.Context) (types.Candidate, Outcome) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		panic("correlate: Waiter is single-use")
	}
	w.started = true
	w.state = StatePolling
	w.mu.Unlock()

	deadline := time.Now().Add(w.opts.Timeout)
	for {
		// Grab the grown channel before scanning so an append that lands
		// during the scan wakes the sleep below instead of being missed.
		grown := w.source.Grown()

		if candidate, ok := match.Find(w.query, w.source.Snapshot()); ok {
			w.setState(StateResolved)
			w.logger.Info("Query resolved",
				zap.String("company", candidate.CompanyName),
				zap.String("website", candidate.Website))
			return candidate, OutcomeResolved
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			w.setState(StateTimedOut)
			w.logger.Info("Query timed out",
				zap.String("requested_name", w.query.RequestedName),
				zap.String("requested_website", w.query.RequestedWebsite),
				zap.Duration("budget", w.opts.Timeout))
			return types.NotFoundCandidate(), OutcomeTimedOut
		}

		sleep := w.opts.PollInterval
		if sleep > remaining {
			sleep = remaining
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.setState(StateTimedOut)
			w.logger.Info("Wait abandoned", zap.Error(ctx.Err()))
			return types.NotFoundCandidate(), OutcomeCanceled
		case <-grown:
			timer.Stop()
			// New records arrived; re-check immediately.
		case <-timer.C:
		}
	}
}
