package similarity

import (
	"context"
	"log/slog"

	"github.com/siherrmann/matchmaker/model"
)

// Resolver tries the primary strategy and falls back to the secondary one
// when the primary reports an error.
type Resolver struct {
	primary    Strategy
	fallback   Strategy
	logger     *slog.Logger
	onFallback func(err error)
}

// ResolverOption applies a configuration option to the Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFallbackHook sets a function that is called on every fallback.
func WithFallbackHook(hook func(err error)) ResolverOption {
	return func(r *Resolver) {
		r.onFallback = hook
	}
}

// NewResolver creates a resolver. A nil primary always uses the fallback.
func NewResolver(primary Strategy, fallback Strategy, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		primary:  primary,
		fallback: fallback,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewDefaultResolver creates a resolver using the database search first and
// the in-process computation as fallback.
func NewDefaultResolver(searcher Searcher, opts ...ResolverOption) *Resolver {
	return NewResolver(NewNativeStrategy(searcher), NewManualStrategy(), opts...)
}

// FindNearest implements Strategy.
// Cancellation of ctx is returned as is and does not trigger the fallback.
func (r *Resolver) FindNearest(ctx context.Context, query *model.AttendeeProfile, pool []*model.AttendeeProfile, k int) (*model.Resolution, error) {
	if r.primary != nil {
		resolution, err := r.primary.FindNearest(ctx, query, pool, k)
		if err == nil {
			return resolution, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		r.logger.Warn("Similarity search failed, computing distances in process",
			slog.String("attendee_id", query.ID.String()),
			slog.String("error", err.Error()),
		)
		if r.onFallback != nil {
			r.onFallback(err)
		}
	}

	return r.fallback.FindNearest(ctx, query, pool, k)
}
