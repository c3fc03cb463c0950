package correlate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/types"
)

// Dispatcher sends the outbound enrichment request. Implemented by
// dispatch.Client; narrowed to an interface here so resolves are testable
// without HTTP.
type Dispatcher interface {
	Dispatch(ctx context.Context, identifier, token string) error
}

// NewToken returns a fresh caller-chosen correlation token for embedding in
// a callback URL.
func NewToken() string {
	return uuid.NewString()
}

// Resolver runs the full dispatch → wait → result-or-fallback sequence for
// one logical request. Many resolves may be in flight at once; they all read
// the same growing sink.
type Resolver struct {
	logger     *zap.Logger
	source     SnapshotSource
	dispatcher Dispatcher
	opts       Options
}

// NewResolver creates a Resolver.
func NewResolver(source SnapshotSource, dispatcher Dispatcher, opts Options, logger *zap.Logger) *Resolver {
	if dispatcher == nil {
		panic("correlate: nil Dispatcher")
	}
	return &Resolver{
		logger:     logger.Named("resolver"),
		source:     source,
		dispatcher: dispatcher,
		opts:       opts,
	}
}

// Resolve dispatches an enrichment request for identifier and waits for the
// matching callback. A dispatch failure is returned as an error immediately;
// once dispatch succeeds the caller always gets a candidate or the not-found
// sentinel, never an error.
func (r *Resolver) Resolve(ctx context.Context, name, website, identifier string) (types.Candidate, Outcome, error) {
	token := NewToken()
	if err := r.dispatcher.Dispatch(ctx, identifier, token); err != nil {
		return types.NotFoundCandidate(), "", err
	}

	query := types.Query{
		RequestedName:    name,
		RequestedWebsite: website,
		Token:            token,
	}
	w := NewWaiter(r.source, query, r.opts, r.logger)
	candidate, outcome := w.Wait(ctx)
	return candidate, outcome, nil
}

// DispatchOnly fires an enrichment request without waiting for its callback
// and returns the correlation token it was dispatched with, so the caller
// can inspect the sink later.
func (r *Resolver) DispatchOnly(ctx context.Context, identifier string) (string, error) {
	token := NewToken()
	if err := r.dispatcher.Dispatch(ctx, identifier, token); err != nil {
		return "", err
	}
	return token, nil
}
