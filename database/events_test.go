package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsNewEventsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewEventsDBHandler", func(t *testing.T) {
		eventsDbHandler, err := NewEventsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewEventsDBHandler to not return an error")
		require.NotNil(t, eventsDbHandler, "Expected NewEventsDBHandler to return a non-nil instance")
		require.NotNil(t, eventsDbHandler.db, "Expected NewEventsDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewEventsDBHandler with nil database", func(t *testing.T) {
		_, err := NewEventsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating EventsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil")
	})
}

func TestEventsInsertAndSelect(t *testing.T) {
	database := initDB(t)
	handlers := initHandlers(t, database)
	ctx := context.Background()

	t.Run("Insert organization", func(t *testing.T) {
		organization := &model.Organization{Name: "Acme", OwnerID: "owner-1"}
		err := handlers.events.InsertOrganization(ctx, organization)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, organization.ID)
		assert.Equal(t, "Acme", organization.Name)
		assert.Equal(t, "owner-1", organization.OwnerID)
		assert.False(t, organization.CreatedAt.IsZero())
	})

	t.Run("Insert event with defaults", func(t *testing.T) {
		organization := &model.Organization{Name: "Acme", OwnerID: "owner-2"}
		require.NoError(t, handlers.events.InsertOrganization(ctx, organization))

		event := &model.Event{OrganizationID: organization.ID, Name: "GopherCon"}
		err := handlers.events.InsertEvent(ctx, event)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, event.ID)
		assert.Equal(t, model.EventStatusDraft, event.Status)
		assert.Equal(t, model.OutreachChannelEmail, event.OutreachChannel)
	})

	t.Run("Select event with owner", func(t *testing.T) {
		event := createTestEvent(t, handlers, "owner-3")

		selected, err := handlers.events.SelectEvent(ctx, event.ID)
		require.NoError(t, err)

		assert.Equal(t, event.ID, selected.ID)
		assert.Equal(t, event.Name, selected.Name)
		assert.Equal(t, "owner-3", selected.OwnerID)
		assert.Equal(t, "Test Organization", selected.OrganizationName)
		assert.True(t, selected.IsOwnedBy("owner-3"))
	})

	t.Run("Select unknown event returns not found", func(t *testing.T) {
		_, err := handlers.events.SelectEvent(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
