package model

import "github.com/google/uuid"

// MatchCandidate is an unordered pair proposed during one generation run.
// It is never stored, only converted into a Match.
type MatchCandidate struct {
	AttendeeA       *AttendeeProfile `json:"attendee_a"`
	AttendeeB       *AttendeeProfile `json:"attendee_b"`
	Distance        float64          `json:"distance"`
	CommonInterests string           `json:"common_interests,omitempty"`
}

// SimilarityScore returns the clamped score of the candidate distance.
func (c *MatchCandidate) SimilarityScore() float64 {
	return SimilarityFromDistance(c.Distance)
}

// ToMatch builds the pending match row for the candidate.
func (c *MatchCandidate) ToMatch(eventID uuid.UUID) *Match {
	return &Match{
		EventID:         eventID,
		AttendeeAID:     c.AttendeeA.ID,
		AttendeeBID:     c.AttendeeB.ID,
		SimilarityScore: c.SimilarityScore(),
		CommonInterests: c.CommonInterests,
		Status:          MatchStatusPending,
	}
}
