package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	eventID := uuid.New()

	t.Run("Persists all candidates in one call", func(t *testing.T) {
		repository := &memoryRepository{}
		candidates := testCandidates(3)
		for _, candidate := range candidates {
			candidate.Distance = -0.1
			candidate.CommonInterests = "AI"
		}

		created, err := NewWriter(repository).Persist(context.Background(), eventID, candidates)
		require.NoError(t, err)

		assert.Equal(t, 3, created)
		assert.Equal(t, 1, repository.inserts)
		for _, match := range repository.matches {
			assert.Equal(t, eventID, match.EventID)
			assert.Equal(t, 1.0, match.SimilarityScore, "Score should be clamped to 1")
			assert.Equal(t, model.MatchStatusPending, match.Status)
			assert.Equal(t, "AI", match.CommonInterests)
		}
	})

	t.Run("Count reflects rows confirmed by the store", func(t *testing.T) {
		repository := &memoryRepository{}
		candidates := testCandidates(1)
		duplicate := &model.MatchCandidate{AttendeeA: candidates[0].AttendeeB, AttendeeB: candidates[0].AttendeeA}

		created, err := NewWriter(repository).Persist(context.Background(), eventID, append(candidates, duplicate))
		require.NoError(t, err)
		assert.Equal(t, 1, created)
	})

	t.Run("Insert error reports zero", func(t *testing.T) {
		repository := &memoryRepository{insertErr: errors.New("connection reset")}

		created, err := NewWriter(repository).Persist(context.Background(), eventID, testCandidates(2))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Equal(t, 0, created)
	})

	t.Run("No candidates skips the store", func(t *testing.T) {
		repository := &memoryRepository{}

		created, err := NewWriter(repository).Persist(context.Background(), eventID, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 0, repository.inserts)
	})
}
