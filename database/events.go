package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
	loadSql "github.com/siherrmann/matchmaker/sql"
)

// ErrEventNotFound is returned when an event does not exist.
var ErrEventNotFound = errors.New("event not found")

// EventsDBHandlerFunctions defines the interface for Events database operations.
type EventsDBHandlerFunctions interface {
	InsertOrganization(ctx context.Context, organization *model.Organization) error
	InsertEvent(ctx context.Context, event *model.Event) error
	SelectEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
}

// EventsDBHandler handles organization and event database operations
type EventsDBHandler struct {
	db *helper.Database
}

// NewEventsDBHandler creates a new events database handler.
// It loads the event SQL functions and creates the organizations and events tables.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEventsDBHandler(db *helper.Database, force bool) (*EventsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	eventsDbHandler := &EventsDBHandler{
		db: db,
	}

	err := loadSql.LoadEventsSql(eventsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load events sql", err)
	}

	err = eventsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EventsDBHandler")

	return eventsDbHandler, nil
}

// CreateTable creates the 'organizations' and 'events' tables if they do not exist.
func (h *EventsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_events();`)
	if err != nil {
		return helper.NewError("init events", err)
	}

	h.db.Logger.Info("Checked/created tables organizations and events")

	return nil
}

// InsertOrganization inserts a new organization
func (h *EventsDBHandler) InsertOrganization(ctx context.Context, organization *model.Organization) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_organization($1, $2)`,
		organization.Name,
		organization.OwnerID,
	)

	err := row.Scan(
		&organization.ID,
		&organization.Name,
		&organization.OwnerID,
		&organization.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertEvent inserts a new event. Empty status and channel get their defaults.
func (h *EventsDBHandler) InsertEvent(ctx context.Context, event *model.Event) error {
	if event.Status == "" {
		event.Status = model.EventStatusDraft
	}
	if event.OutreachChannel == "" {
		event.OutreachChannel = model.OutreachChannelEmail
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_event($1, $2, $3, $4)`,
		event.OrganizationID,
		event.Name,
		event.Status,
		event.OutreachChannel,
	)

	err := row.Scan(
		&event.ID,
		&event.OrganizationID,
		&event.Name,
		&event.Status,
		&event.OutreachChannel,
		&event.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEvent selects an event together with its owner.
// It returns ErrEventNotFound if no event has the given id.
func (h *EventsDBHandler) SelectEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_event($1)`,
		id,
	)

	event := &model.Event{}
	err := row.Scan(
		&event.ID,
		&event.OrganizationID,
		&event.Name,
		&event.Status,
		&event.OutreachChannel,
		&event.CreatedAt,
		&event.OwnerID,
		&event.OrganizationName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return event, nil
}
