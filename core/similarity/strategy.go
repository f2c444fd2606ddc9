package similarity

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
)

// Strategy finds the k nearest attendees of a query attendee within a pool.
// Neighbours are ordered by ascending distance and never include the query attendee.
type Strategy interface {
	FindNearest(ctx context.Context, query *model.AttendeeProfile, pool []*model.AttendeeProfile, k int) (*model.Resolution, error)
}

// Searcher is the database similarity search.
type Searcher interface {
	SelectSimilarAttendees(ctx context.Context, embedding []float32, eventID uuid.UUID, excludeAttendeeID uuid.UUID, limit int) ([]*model.SimilarAttendee, error)
}

// NativeStrategy delegates the search to the database.
type NativeStrategy struct {
	searcher Searcher
}

// NewNativeStrategy creates a new database backed strategy
func NewNativeStrategy(searcher Searcher) *NativeStrategy {
	return &NativeStrategy{searcher: searcher}
}

// FindNearest runs the database search for the query attendee.
// Results that are not part of the pool are dropped.
func (s *NativeStrategy) FindNearest(ctx context.Context, query *model.AttendeeProfile, pool []*model.AttendeeProfile, k int) (*model.Resolution, error) {
	similar, err := s.searcher.SelectSimilarAttendees(ctx, query.Embedding, query.EventID, query.ID, k)
	if err != nil {
		return nil, helper.NewError("select similar attendees", err)
	}

	byID := make(map[uuid.UUID]*model.AttendeeProfile, len(pool))
	for _, profile := range pool {
		byID[profile.ID] = profile
	}

	resolution := &model.Resolution{
		Neighbors: make([]*model.Neighbor, 0, len(similar)),
		Method:    model.SimilarityMethodNative,
	}
	for _, row := range similar {
		profile, ok := byID[row.ID]
		if !ok || row.ID == query.ID {
			continue
		}
		resolution.Neighbors = append(resolution.Neighbors, &model.Neighbor{Attendee: profile, Distance: row.Distance})
		if len(resolution.Neighbors) == k {
			break
		}
	}

	return resolution, nil
}

// ManualStrategy computes cosine distances in process.
type ManualStrategy struct{}

// NewManualStrategy creates a new in-process strategy
func NewManualStrategy() *ManualStrategy {
	return &ManualStrategy{}
}

// FindNearest compares the query with every other attendee of the pool.
// Pairs that cannot be compared are skipped and reported in Resolution.Skipped.
func (s *ManualStrategy) FindNearest(ctx context.Context, query *model.AttendeeProfile, pool []*model.AttendeeProfile, k int) (*model.Resolution, error) {
	resolution := &model.Resolution{
		Neighbors: make([]*model.Neighbor, 0, len(pool)),
		Method:    model.SimilarityMethodManual,
	}

	for _, other := range pool {
		if other.ID == query.ID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		distance, err := CosineDistance(query.Embedding, other.Embedding)
		if err != nil {
			resolution.Skipped = append(resolution.Skipped, &model.SkippedPair{AttendeeAID: query.ID, AttendeeBID: other.ID, Err: err})
			continue
		}
		resolution.Neighbors = append(resolution.Neighbors, &model.Neighbor{Attendee: other, Distance: distance})
	}

	sort.SliceStable(resolution.Neighbors, func(i, j int) bool {
		return resolution.Neighbors[i].Distance < resolution.Neighbors[j].Distance
	})
	if k >= 0 && len(resolution.Neighbors) > k {
		resolution.Neighbors = resolution.Neighbors[:k]
	}

	return resolution, nil
}
