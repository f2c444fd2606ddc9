package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization owns events. OwnerID is the subject of the authenticated user.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
)

type OutreachChannel string

const (
	OutreachChannelEmail    OutreachChannel = "email"
	OutreachChannelWhatsApp OutreachChannel = "whatsapp"
	OutreachChannelBoth     OutreachChannel = "both"
)

// Event is a conference whose attendees get matched.
type Event struct {
	ID              uuid.UUID       `json:"id"`
	OrganizationID  uuid.UUID       `json:"organization_id"`
	Name            string          `json:"name"`
	Status          EventStatus     `json:"status"`
	OutreachChannel OutreachChannel `json:"outreach_channel"`
	CreatedAt       time.Time       `json:"created_at"`
	// Joined from the owning organization
	OwnerID          string `json:"owner_id,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// IsOwnedBy reports whether ownerID owns the organization of the event.
func (e *Event) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && e.OwnerID == ownerID
}
