package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/matchmaker/core/similarity"
	"github.com/siherrmann/matchmaker/model"
)

// Collection is the outcome of one candidate collection pass.
type Collection struct {
	Candidates []*model.MatchCandidate
	// Attendees whose lookup failed and pairs that could not be compared
	Errors []error
	// Unordered pairs that could not be compared, each counted once
	Skipped int
}

// Collector nominates the nearest neighbours of every eligible attendee
// and keeps each unordered pair once.
type Collector struct {
	resolver similarity.Strategy
	k        int
	logger   *slog.Logger
}

// NewCollector creates a collector looking up k neighbours per attendee
func NewCollector(resolver similarity.Strategy, k int, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{resolver: resolver, k: k, logger: logger}
}

// Collect resolves the neighbours of each attendee in order and returns the
// candidates not yet seen by the filter. Emitted pairs are marked immediately,
// so a mutual nomination yields one candidate.
// It returns model.ErrInsufficientPopulation for fewer than two attendees.
func (c *Collector) Collect(ctx context.Context, eligible []*model.AttendeeProfile, filter *PairFilter) (*Collection, error) {
	if len(eligible) < 2 {
		return nil, model.ErrInsufficientPopulation
	}

	collection := &Collection{Candidates: []*model.MatchCandidate{}}
	reported := NewPairFilter()
	for _, attendee := range eligible {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resolution, err := c.resolver.FindNearest(ctx, attendee, eligible, c.k)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn("Skipping attendee without neighbours",
				slog.String("attendee_id", attendee.ID.String()),
				slog.String("error", err.Error()),
			)
			collection.Errors = append(collection.Errors, fmt.Errorf("find similar attendees for %s: %w", attendee.DisplayName(), err))
			continue
		}

		for _, skipped := range resolution.Skipped {
			if reported.Seen(skipped.AttendeeAID, skipped.AttendeeBID) {
				continue
			}
			reported.Mark(skipped.AttendeeAID, skipped.AttendeeBID)
			collection.Errors = append(collection.Errors, skipped)
			collection.Skipped++
		}

		for _, neighbor := range resolution.Neighbors {
			other := neighbor.Attendee
			if other.ID == attendee.ID || filter.Seen(attendee.ID, other.ID) {
				continue
			}

			collection.Candidates = append(collection.Candidates, &model.MatchCandidate{
				AttendeeA: attendee,
				AttendeeB: other,
				Distance:  neighbor.Distance,
			})
			filter.Mark(attendee.ID, other.ID)
		}
	}

	return collection, nil
}
