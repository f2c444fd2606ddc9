package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the delivery state of a match.
type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusAConsented MatchStatus = "a_consented"
	MatchStatusBConsented MatchStatus = "b_consented"
	MatchStatusIntroduced MatchStatus = "introduced"
)

// Match is a persisted pairing of two attendees of one event.
type Match struct {
	ID              uuid.UUID   `json:"id"`
	EventID         uuid.UUID   `json:"event_id"`
	AttendeeAID     uuid.UUID   `json:"attendee_a_id"`
	AttendeeBID     uuid.UUID   `json:"attendee_b_id"`
	SimilarityScore float64     `json:"similarity_score"`
	CommonInterests string      `json:"common_interests"`
	Status          MatchStatus `json:"status"`
	IntroducedAt    *time.Time  `json:"introduced_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Pair is the unordered attendee pair of an existing match.
type Pair struct {
	AttendeeAID uuid.UUID `json:"attendee_a_id"`
	AttendeeBID uuid.UUID `json:"attendee_b_id"`
}

// SimilarityFromDistance converts a cosine distance into a score in [0, 1].
func SimilarityFromDistance(distance float64) float64 {
	return ClampScore(1 - distance)
}

// ClampScore limits a similarity score to [0, 1]. NaN scores 0.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
