package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
	loadSql "github.com/siherrmann/matchmaker/sql"
)

// AttendeesDBHandlerFunctions defines the interface for Attendees database operations.
type AttendeesDBHandlerFunctions interface {
	InsertAttendees(ctx context.Context, eventID uuid.UUID, attendees []*model.AttendeeImport) ([]*model.Attendee, error)
	SelectAttendee(ctx context.Context, id uuid.UUID) (*model.Attendee, error)
	SelectAttendeesByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error)
	UpdateAttendeeStatus(ctx context.Context, id uuid.UUID, status model.AttendeeStatus) (*model.Attendee, error)
	SelectEligibleAttendees(ctx context.Context, eventID uuid.UUID) ([]*model.AttendeeProfile, error)
}

// AttendeesDBHandler handles attendee-related database operations
type AttendeesDBHandler struct {
	db *helper.Database
}

// NewAttendeesDBHandler creates a new attendees database handler.
// The events table has to exist before because attendees reference events.
func NewAttendeesDBHandler(db *helper.Database, force bool) (*AttendeesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	attendeesDbHandler := &AttendeesDBHandler{
		db: db,
	}

	err := loadSql.LoadAttendeesSql(attendeesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load attendees sql", err)
	}

	err = attendeesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized AttendeesDBHandler")

	return attendeesDbHandler, nil
}

// CreateTable creates the 'attendees' table if it does not exist.
func (h *AttendeesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_attendees();`)
	if err != nil {
		return helper.NewError("init attendees", err)
	}

	h.db.Logger.Info("Checked/created table attendees")

	return nil
}

// InsertAttendees inserts all attendees in one call with status imported.
// Attendees whose email already exists for the event are not inserted
// and not returned.
func (h *AttendeesDBHandler) InsertAttendees(ctx context.Context, eventID uuid.UUID, attendees []*model.AttendeeImport) ([]*model.Attendee, error) {
	if len(attendees) == 0 {
		return []*model.Attendee{}, nil
	}

	emails := make([]string, len(attendees))
	names := make([]string, len(attendees))
	phones := make([]string, len(attendees))
	for i, attendee := range attendees {
		emails[i] = attendee.Email
		if attendee.Name != nil {
			names[i] = *attendee.Name
		}
		if attendee.Phone != nil {
			phones[i] = *attendee.Phone
		}
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM insert_attendees($1, $2, $3, $4)`,
		eventID,
		pq.Array(emails),
		pq.Array(names),
		pq.Array(phones),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanAttendees(rows)
}

// SelectAttendee selects a single attendee by id
func (h *AttendeesDBHandler) SelectAttendee(ctx context.Context, id uuid.UUID) (*model.Attendee, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_attendee($1)`,
		id,
	)

	attendee, err := scanAttendee(row)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return attendee, nil
}

// SelectAttendeesByEvent selects all attendees of an event
func (h *AttendeesDBHandler) SelectAttendeesByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_attendees_by_event($1)`,
		eventID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanAttendees(rows)
}

// UpdateAttendeeStatus sets the status of an attendee.
// Setting completed also stamps completed_at once.
func (h *AttendeesDBHandler) UpdateAttendeeStatus(ctx context.Context, id uuid.UUID, status model.AttendeeStatus) (*model.Attendee, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM update_attendee_status($1, $2)`,
		id,
		status,
	)

	attendee, err := scanAttendee(row)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return attendee, nil
}

// SelectEligibleAttendees selects all completed attendees of an event
// that have a response embedding, with their answers.
func (h *AttendeesDBHandler) SelectEligibleAttendees(ctx context.Context, eventID uuid.UUID) ([]*model.AttendeeProfile, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_eligible_attendees($1)`,
		eventID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	profiles := []*model.AttendeeProfile{}
	for rows.Next() {
		profile := &model.AttendeeProfile{}
		var embedding pgvector.Vector
		err := rows.Scan(
			&profile.ID,
			&profile.EventID,
			&profile.Email,
			&profile.Name,
			&profile.Phone,
			&profile.Status,
			&profile.MatchingConsent,
			&profile.CompletedAt,
			&profile.CreatedAt,
			&profile.Answers,
			&embedding,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		profile.Embedding = embedding.Slice()
		profiles = append(profiles, profile)
	}

	if err = rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendee(row rowScanner) (*model.Attendee, error) {
	attendee := &model.Attendee{}
	err := row.Scan(
		&attendee.ID,
		&attendee.EventID,
		&attendee.Email,
		&attendee.Name,
		&attendee.Phone,
		&attendee.Status,
		&attendee.MatchingConsent,
		&attendee.CompletedAt,
		&attendee.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

func scanAttendees(rows *sql.Rows) ([]*model.Attendee, error) {
	attendees := []*model.Attendee{}
	for rows.Next() {
		attendee, err := scanAttendee(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		attendees = append(attendees, attendee)
	}

	if err := rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return attendees, nil
}
