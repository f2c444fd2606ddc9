package matching

import (
	"context"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
)

// MatchInserter stores matches in one call and returns the rows it created.
type MatchInserter interface {
	InsertMatches(ctx context.Context, eventID uuid.UUID, matches []*model.Match) ([]*model.Match, error)
}

// Writer persists enriched candidates as pending matches.
type Writer struct {
	inserter MatchInserter
}

// NewWriter creates a new writer
func NewWriter(inserter MatchInserter) *Writer {
	return &Writer{inserter: inserter}
}

// Persist inserts all candidates with a single bulk call.
// The count is the number of rows the store confirmed, zero on error.
func (w *Writer) Persist(ctx context.Context, eventID uuid.UUID, candidates []*model.MatchCandidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	matches := make([]*model.Match, len(candidates))
	for i, candidate := range candidates {
		matches[i] = candidate.ToMatch(eventID)
	}

	created, err := w.inserter.InsertMatches(ctx, eventID, matches)
	if err != nil {
		return 0, helper.NewError("insert matches", err)
	}

	return len(created), nil
}
