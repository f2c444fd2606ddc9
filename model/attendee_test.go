package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAttendee_DisplayName(t *testing.T) {
	t.Run("Uses name when set", func(t *testing.T) {
		name := "Ada"
		attendee := &Attendee{Email: "ada@example.com", Name: &name}

		assert.Equal(t, "Ada", attendee.DisplayName())
	})

	t.Run("Falls back to email", func(t *testing.T) {
		attendee := &Attendee{Email: "ada@example.com"}

		assert.Equal(t, "ada@example.com", attendee.DisplayName())
	})

	t.Run("Empty name falls back to email", func(t *testing.T) {
		empty := ""
		attendee := &Attendee{Email: "ada@example.com", Name: &empty}

		assert.Equal(t, "ada@example.com", attendee.DisplayName())
	})
}

func TestAttendeeProfile_IsEligible(t *testing.T) {
	t.Run("Completed with embedding is eligible", func(t *testing.T) {
		profile := &AttendeeProfile{Attendee: Attendee{Status: AttendeeStatusCompleted}, Embedding: []float32{1}}
		assert.True(t, profile.IsEligible())
	})

	t.Run("Missing embedding is not eligible", func(t *testing.T) {
		profile := &AttendeeProfile{Attendee: Attendee{Status: AttendeeStatusCompleted}}
		assert.False(t, profile.IsEligible())
	})

	t.Run("Matched attendee is not eligible", func(t *testing.T) {
		profile := &AttendeeProfile{Attendee: Attendee{Status: AttendeeStatusMatched}, Embedding: []float32{1}}
		assert.False(t, profile.IsEligible())
	})
}

func TestEvent_IsOwnedBy(t *testing.T) {
	event := &Event{ID: uuid.New(), OwnerID: "user-1"}

	assert.True(t, event.IsOwnedBy("user-1"))
	assert.False(t, event.IsOwnedBy("user-2"))
	assert.False(t, event.IsOwnedBy(""))
}

func TestContact_DisplayName(t *testing.T) {
	name := "Grace"
	assert.Equal(t, "Grace", (&Contact{Name: &name}).DisplayName())
	assert.Equal(t, "Anonymous", (&Contact{}).DisplayName())
}
