package introduction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/metrics"
	"github.com/siherrmann/matchmaker/model"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum pause between two deliveries.
const DefaultInterval = 600 * time.Millisecond

const noEligibleMessage = "No eligible matches found (may already be introduced)"

var (
	// ErrNoMatchIDs is returned when an introduction run names no matches.
	ErrNoMatchIDs = errors.New("matchIds array is required")
	// ErrNoChannel is returned by a notifier that cannot reach either attendee.
	ErrNoChannel = errors.New("No communication channel available")
)

// Notifier delivers one introduction to both attendees.
type Notifier interface {
	Notify(ctx context.Context, introduction *model.Introduction) error
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, introduction *model.Introduction) error

func (f NotifierFunc) Notify(ctx context.Context, introduction *model.Introduction) error {
	return f(ctx, introduction)
}

// Store loads pending introductions and flips their status.
type Store interface {
	SelectPendingIntroductions(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) ([]*model.Introduction, error)
	MarkMatchIntroduced(ctx context.Context, matchID uuid.UUID) (bool, error)
}

// Introducer sends introductions for selected matches of an event.
type Introducer struct {
	store    Store
	notifier Notifier
	limiter  *rate.Limiter
	logger   *slog.Logger
	metrics  *metrics.Manager
}

// Option configures an Introducer.
type Option func(*Introducer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Introducer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMetrics records sent and failed introductions.
func WithMetrics(manager *metrics.Manager) Option {
	return func(i *Introducer) {
		i.metrics = manager
	}
}

// WithInterval sets the minimum pause between deliveries.
// A zero interval disables pacing.
func WithInterval(interval time.Duration) Option {
	return func(i *Introducer) {
		if interval <= 0 {
			i.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		i.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewIntroducer creates an Introducer paced at DefaultInterval.
func NewIntroducer(store Store, notifier Notifier, opts ...Option) *Introducer {
	i := &Introducer{
		store:    store,
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Every(DefaultInterval), 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Introduce delivers every selected match of the event that is not yet
// introduced. Deliveries run one after another, paced by the limiter.
// A match whose status was flipped by a concurrent run is not counted.
func (i *Introducer) Introduce(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) (*model.IntroductionResult, error) {
	if len(matchIDs) == 0 {
		return nil, ErrNoMatchIDs
	}

	introductions, err := i.store.SelectPendingIntroductions(ctx, eventID, matchIDs)
	if err != nil {
		return nil, err
	}

	if len(introductions) == 0 {
		return &model.IntroductionResult{
			Success: true,
			Message: noEligibleMessage,
		}, nil
	}

	result := &model.IntroductionResult{Success: true}
	skipped := 0
	for n, introduction := range introductions {
		if err := i.limiter.Wait(ctx); err != nil {
			// Everything not yet delivered fails with the wait error.
			for _, rest := range introductions[n:] {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("Match %s: %v", rest.MatchID, err))
			}
			break
		}

		if err := i.notifier.Notify(ctx, introduction); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Match %s: %v", introduction.MatchID, err))
			i.logger.Warn("Introduction failed",
				slog.String("match_id", introduction.MatchID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		updated, err := i.store.MarkMatchIntroduced(ctx, introduction.MatchID)
		if err != nil {
			i.logger.Error("Failed to update match",
				slog.String("match_id", introduction.MatchID.String()),
				slog.String("error", err.Error()),
			)
		} else if !updated {
			i.logger.Info("Match already introduced", slog.String("match_id", introduction.MatchID.String()))
			skipped++
			continue
		}
		result.Sent++
	}

	i.metrics.AddIntroductions("sent", result.Sent)
	i.metrics.AddIntroductions("failed", result.Failed)
	i.metrics.AddIntroductions("skipped", skipped)
	result.Message = resultMessage(result.Sent, result.Failed)

	i.logger.Info("Introductions sent",
		slog.String("event_id", eventID.String()),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func resultMessage(sent int, failed int) string {
	plural := "s"
	if sent == 1 {
		plural = ""
	}
	if failed > 0 {
		return fmt.Sprintf("Sent %d introduction%s (%d failed)", sent, plural, failed)
	}
	return fmt.Sprintf("Sent %d introduction%s successfully", sent, plural)
}
