package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
	loadSql "github.com/siherrmann/matchmaker/sql"
)

// MatchesDBHandlerFunctions defines the interface for Matches database operations.
type MatchesDBHandlerFunctions interface {
	InsertMatches(ctx context.Context, eventID uuid.UUID, matches []*model.Match) ([]*model.Match, error)
	SelectMatchesByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Match, error)
	SelectMatchPairs(ctx context.Context, eventID uuid.UUID) ([]model.Pair, error)
	SelectPendingIntroductions(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) ([]*model.Introduction, error)
	MarkMatchIntroduced(ctx context.Context, matchID uuid.UUID) (bool, error)
}

// MatchesDBHandler handles match-related database operations
type MatchesDBHandler struct {
	db *helper.Database
}

// NewMatchesDBHandler creates a new matches database handler.
// The events and attendees tables have to exist before.
func NewMatchesDBHandler(db *helper.Database, force bool) (*MatchesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	matchesDbHandler := &MatchesDBHandler{
		db: db,
	}

	err := loadSql.LoadMatchesSql(matchesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load matches sql", err)
	}

	err = matchesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized MatchesDBHandler")

	return matchesDbHandler, nil
}

// CreateTable creates the 'matches' table and its unordered pair index.
func (h *MatchesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_matches();`)
	if err != nil {
		return helper.NewError("init matches", err)
	}

	h.db.Logger.Info("Checked/created table matches")

	return nil
}

// InsertMatches inserts all matches in a single call.
// Pairs that already exist for the event are skipped, so the returned slice
// only holds the rows that were actually created.
func (h *MatchesDBHandler) InsertMatches(ctx context.Context, eventID uuid.UUID, matches []*model.Match) ([]*model.Match, error) {
	if len(matches) == 0 {
		return []*model.Match{}, nil
	}

	aIDs := make([]uuid.UUID, len(matches))
	bIDs := make([]uuid.UUID, len(matches))
	scores := make([]float64, len(matches))
	interests := make([]string, len(matches))
	for i, match := range matches {
		aIDs[i] = match.AttendeeAID
		bIDs[i] = match.AttendeeBID
		scores[i] = model.ClampScore(match.SimilarityScore)
		interests[i] = match.CommonInterests
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM insert_matches($1, $2, $3, $4, $5)`,
		eventID,
		pq.Array(aIDs),
		pq.Array(bIDs),
		pq.Array(scores),
		pq.Array(interests),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// SelectMatchesByEvent selects all matches of an event, best score first
func (h *MatchesDBHandler) SelectMatchesByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Match, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_matches_by_event($1)`,
		eventID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// SelectMatchPairs returns the attendee pairs of all matches of an event.
func (h *MatchesDBHandler) SelectMatchPairs(ctx context.Context, eventID uuid.UUID) ([]model.Pair, error) {
	matches, err := h.SelectMatchesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	pairs := make([]model.Pair, len(matches))
	for i, match := range matches {
		pairs[i] = model.Pair{AttendeeAID: match.AttendeeAID, AttendeeBID: match.AttendeeBID}
	}

	return pairs, nil
}

// SelectPendingIntroductions selects the matches with the given ids that belong
// to the event and are not introduced yet, with both contacts.
func (h *MatchesDBHandler) SelectPendingIntroductions(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) ([]*model.Introduction, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_pending_introductions($1, $2)`,
		eventID,
		pq.Array(matchIDs),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	introductions := []*model.Introduction{}
	for rows.Next() {
		introduction := &model.Introduction{}
		err := rows.Scan(
			&introduction.MatchID,
			&introduction.EventID,
			&introduction.EventName,
			&introduction.Channel,
			&introduction.A.AttendeeID,
			&introduction.A.Name,
			&introduction.A.Email,
			&introduction.A.Phone,
			&introduction.B.AttendeeID,
			&introduction.B.Name,
			&introduction.B.Email,
			&introduction.B.Phone,
			&introduction.CommonInterests,
			&introduction.Status,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		introductions = append(introductions, introduction)
	}

	if err = rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return introductions, nil
}

// MarkMatchIntroduced flips a match to introduced.
// It returns false if the match was already introduced by someone else.
func (h *MatchesDBHandler) MarkMatchIntroduced(ctx context.Context, matchID uuid.UUID) (bool, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM mark_match_introduced($1)`,
		matchID,
	)

	var id uuid.UUID
	var introducedAt time.Time
	err := row.Scan(&id, &introducedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, helper.NewError("scan", err)
	}

	return true, nil
}

func scanMatches(rows *sql.Rows) ([]*model.Match, error) {
	matches := []*model.Match{}
	for rows.Next() {
		match := &model.Match{}
		err := rows.Scan(
			&match.ID,
			&match.EventID,
			&match.AttendeeAID,
			&match.AttendeeBID,
			&match.SimilarityScore,
			&match.CommonInterests,
			&match.Status,
			&match.IntroducedAt,
			&match.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return matches, nil
}
