package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
	loadSql "github.com/siherrmann/matchmaker/sql"
)

// ResponsesDBHandlerFunctions defines the interface for Responses database operations.
type ResponsesDBHandlerFunctions interface {
	UpsertResponse(ctx context.Context, response *model.Response) error
	SelectResponseByAttendee(ctx context.Context, attendeeID uuid.UUID) (*model.Response, error)
	SelectSimilarAttendees(ctx context.Context, embedding []float32, eventID uuid.UUID, excludeAttendeeID uuid.UUID, limit int) ([]*model.SimilarAttendee, error)
}

// ResponsesDBHandler handles response-related database operations
type ResponsesDBHandler struct {
	db *helper.Database
}

// NewResponsesDBHandler creates a new responses database handler.
// The attendees table has to exist before because responses reference attendees.
func NewResponsesDBHandler(db *helper.Database, embeddingDim int, force bool) (*ResponsesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	responsesDbHandler := &ResponsesDBHandler{
		db: db,
	}

	err := loadSql.LoadResponsesSql(responsesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load responses sql", err)
	}

	err = responsesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ResponsesDBHandler")

	return responsesDbHandler, nil
}

// CreateTable creates the 'responses' table with a vector column of the given dimension.
// It also creates the vector index.
func (h *ResponsesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_responses($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("init responses", err)
	}

	h.db.Logger.Info("Checked/created table responses")

	return nil
}

// UpsertResponse inserts the response of an attendee or replaces the existing one.
// A response without embedding is stored with a null embedding.
func (h *ResponsesDBHandler) UpsertResponse(ctx context.Context, response *model.Response) error {
	var embedding *pgvector.Vector
	if len(response.Embedding) > 0 {
		vector := pgvector.NewVector(response.Embedding)
		embedding = &vector
	}

	var transcript string
	if response.Transcript != nil {
		transcript = *response.Transcript
	}

	topics := response.Topics
	if topics == nil {
		topics = []string{}
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM upsert_response($1, $2, $3, $4, $5, $6)`,
		response.AttendeeID,
		response.Answers,
		embedding,
		pq.Array(topics),
		string(response.Mode),
		transcript,
	)

	return scanResponse(row, response)
}

// SelectResponseByAttendee selects the response of an attendee
func (h *ResponsesDBHandler) SelectResponseByAttendee(ctx context.Context, attendeeID uuid.UUID) (*model.Response, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_response_by_attendee($1)`,
		attendeeID,
	)

	response := &model.Response{}
	err := scanResponse(row, response)
	if err != nil {
		return nil, err
	}

	return response, nil
}

// SelectSimilarAttendees calls the find_similar_attendees function and returns
// the nearest completed attendees of the event, most similar first.
func (h *ResponsesDBHandler) SelectSimilarAttendees(ctx context.Context, embedding []float32, eventID uuid.UUID, excludeAttendeeID uuid.UUID, limit int) ([]*model.SimilarAttendee, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM find_similar_attendees($1, $2, $3, $4)`,
		pgvector.NewVector(embedding),
		eventID,
		excludeAttendeeID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	similar := []*model.SimilarAttendee{}
	for rows.Next() {
		attendee := &model.SimilarAttendee{}
		err := rows.Scan(
			&attendee.ID,
			&attendee.Name,
			&attendee.Email,
			&attendee.Distance,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		similar = append(similar, attendee)
	}

	if err = rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return similar, nil
}

func scanResponse(row rowScanner, response *model.Response) error {
	var embedding pgvector.Vector
	var embeddingValid bool
	var mode *string
	err := row.Scan(
		&response.ID,
		&response.AttendeeID,
		&response.Answers,
		&nullableVector{vector: &embedding, valid: &embeddingValid},
		pq.Array(&response.Topics),
		&mode,
		&response.Transcript,
		&response.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	response.Embedding = nil
	if embeddingValid {
		response.Embedding = embedding.Slice()
	}
	response.Mode = ""
	if mode != nil {
		response.Mode = model.ResponseMode(*mode)
	}

	return nil
}

// nullableVector scans a vector column that may be null.
type nullableVector struct {
	vector *pgvector.Vector
	valid  *bool
}

func (n *nullableVector) Scan(src interface{}) error {
	if src == nil {
		*n.valid = false
		return nil
	}
	*n.valid = true
	return n.vector.Scan(src)
}
