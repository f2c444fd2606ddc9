package model

import "github.com/google/uuid"

// Contact is the delivery information of one side of an introduction.
type Contact struct {
	AttendeeID uuid.UUID `json:"attendee_id"`
	Name       *string   `json:"name,omitempty"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
}

// DisplayName returns the contact name or "Anonymous".
func (c *Contact) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return "Anonymous"
}

// Introduction is a match loaded together with both contacts for delivery.
type Introduction struct {
	MatchID         uuid.UUID       `json:"match_id"`
	EventID         uuid.UUID       `json:"event_id"`
	EventName       string          `json:"event_name"`
	Channel         OutreachChannel `json:"channel"`
	A               Contact         `json:"attendee_a"`
	B               Contact         `json:"attendee_b"`
	CommonInterests string          `json:"common_interests"`
	Status          MatchStatus     `json:"status"`
}
