package model

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSimilarityFromDistance(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		expected float64
	}{
		{"Identical vectors score 1", 0, 1},
		{"Orthogonal vectors score 0", 1, 0},
		{"Opposite vectors clamp to 0", 2, 0},
		{"Negative distance clamps to 1", -0.2, 1},
		{"Partial similarity", 0.25, 0.75},
		{"NaN scores 0", math.NaN(), 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.expected, SimilarityFromDistance(test.distance), 1e-9)
		})
	}
}

func TestMatchCandidate_ToMatch(t *testing.T) {
	t.Run("Builds pending match with clamped score", func(t *testing.T) {
		eventID := uuid.New()
		a := &AttendeeProfile{Attendee: Attendee{ID: uuid.New()}}
		b := &AttendeeProfile{Attendee: Attendee{ID: uuid.New()}}
		candidate := &MatchCandidate{AttendeeA: a, AttendeeB: b, Distance: 0.1, CommonInterests: "AI"}

		match := candidate.ToMatch(eventID)

		assert.Equal(t, eventID, match.EventID)
		assert.Equal(t, a.ID, match.AttendeeAID)
		assert.Equal(t, b.ID, match.AttendeeBID)
		assert.InDelta(t, 0.9, match.SimilarityScore, 1e-9)
		assert.Equal(t, "AI", match.CommonInterests)
		assert.Equal(t, MatchStatusPending, match.Status)
	})
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-0.5))
	assert.Equal(t, 1.0, ClampScore(1.5))
	assert.Equal(t, 0.4, ClampScore(0.4))
	assert.Equal(t, 0.0, ClampScore(math.NaN()))
}
