package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendeeStatus is the intake lifecycle of an attendee.
type AttendeeStatus string

const (
	AttendeeStatusImported   AttendeeStatus = "imported"
	AttendeeStatusContacted  AttendeeStatus = "contacted"
	AttendeeStatusScheduled  AttendeeStatus = "scheduled"
	AttendeeStatusClicked    AttendeeStatus = "clicked"
	AttendeeStatusInProgress AttendeeStatus = "in_progress"
	AttendeeStatusCompleted  AttendeeStatus = "completed"
	AttendeeStatusMatched    AttendeeStatus = "matched"
)

// Attendee is a person imported for an event.
type Attendee struct {
	ID              uuid.UUID      `json:"id"`
	EventID         uuid.UUID      `json:"event_id"`
	Email           string         `json:"email"`
	Name            *string        `json:"name,omitempty"`
	Phone           *string        `json:"phone,omitempty"`
	Status          AttendeeStatus `json:"status"`
	MatchingConsent bool           `json:"matching_consent"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// DisplayName returns the name if set, the email otherwise.
func (a *Attendee) DisplayName() string {
	if a.Name != nil && *a.Name != "" {
		return *a.Name
	}
	return a.Email
}

// AttendeeImport is one row of an attendee import.
type AttendeeImport struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// AttendeeProfile is an attendee joined with its answers and embedding.
// Only completed attendees with an embedding are loaded as profiles.
type AttendeeProfile struct {
	Attendee
	Answers   Answers   `json:"answers"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// IsEligible reports whether the profile can take part in matching.
func (p *AttendeeProfile) IsEligible() bool {
	return p.Status == AttendeeStatusCompleted && len(p.Embedding) > 0
}
