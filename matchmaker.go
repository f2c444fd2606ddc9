package matchmaker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/core/intake"
	"github.com/siherrmann/matchmaker/core/introduction"
	"github.com/siherrmann/matchmaker/core/llm"
	"github.com/siherrmann/matchmaker/core/matching"
	"github.com/siherrmann/matchmaker/core/pipeline"
	"github.com/siherrmann/matchmaker/core/similarity"
	"github.com/siherrmann/matchmaker/database"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/metrics"
	"github.com/siherrmann/matchmaker/model"
	loadSql "github.com/siherrmann/matchmaker/sql"
)

var (
	// ErrUnauthenticated is returned when no owner is known for a request.
	ErrUnauthenticated = errors.New("Unauthorized")
	// ErrForbidden is returned when the owner does not own the event.
	ErrForbidden = errors.New("Forbidden")
)

// Matchmaker provides a unified interface to all database handlers and
// the matching, intake and introduction flows.
type Matchmaker struct {
	DB         *helper.Database
	Events     *database.EventsDBHandler
	Attendees  *database.AttendeesDBHandler
	Responses  *database.ResponsesDBHandler
	Matches    *database.MatchesDBHandler
	Pipeline   *pipeline.Pipeline // Optional intake pipeline
	Resolver   *similarity.Resolver
	Engine     *matching.Engine
	Introducer *introduction.Introducer
	Metrics    *metrics.Manager

	embeddingDim int
	locks        *helper.KeyedMutex[uuid.UUID]

	// Options
	matchConfig model.MatchConfig
	summarizer  matching.Summarizer
	notifier    introduction.Notifier
	introPacing time.Duration
	log         *slog.Logger
}

// Option configures a Matchmaker.
type Option func(*Matchmaker)

// WithLogger sets the logger used by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matchmaker) {
		if logger != nil {
			m.log = logger
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(manager *metrics.Manager) Option {
	return func(m *Matchmaker) {
		if manager != nil {
			m.Metrics = manager
		}
	}
}

// WithMatchConfig sets the match generation settings.
func WithMatchConfig(config model.MatchConfig) Option {
	return func(m *Matchmaker) {
		m.matchConfig = config.Normalize()
	}
}

// WithSummarizer sets the provider of common interests texts.
func WithSummarizer(summarizer matching.Summarizer) Option {
	return func(m *Matchmaker) {
		if summarizer != nil {
			m.summarizer = summarizer
		}
	}
}

// WithNotifier sets the delivery of introductions.
func WithNotifier(notifier introduction.Notifier) Option {
	return func(m *Matchmaker) {
		if notifier != nil {
			m.notifier = notifier
		}
	}
}

// WithIntroductionInterval sets the pause between two introductions.
func WithIntroductionInterval(interval time.Duration) Option {
	return func(m *Matchmaker) {
		m.introPacing = interval
	}
}

// matchRepository joins the attendee and match handlers for the engine.
type matchRepository struct {
	*database.AttendeesDBHandler
	*database.MatchesDBHandler
}

// NewMatchmaker creates a new Matchmaker instance with all handlers initialized.
// Without WithSummarizer every match gets the fallback interests text.
func NewMatchmaker(config *helper.DatabaseConfiguration, embeddingDim int, opts ...Option) (*Matchmaker, error) {
	// Logger
	logOpts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}

	m := &Matchmaker{
		Metrics:      metrics.NewManager(),
		embeddingDim: embeddingDim,
		locks:        helper.NewKeyedMutex[uuid.UUID](),
		matchConfig:  model.DefaultMatchConfig(),
		summarizer:   llm.UnconfiguredSummarizer{},
		introPacing:  introduction.DefaultInterval,
		log:          slog.New(helper.NewPrettyHandler(os.Stdout, logOpts)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = &introduction.LogNotifier{Logger: m.log}
	}

	// Initialize database
	db := helper.NewDatabase("matchmaker", config, m.log)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}
	m.DB = db

	// Create all handlers in the correct order (events first, matches last)
	// force=false to not reload if functions already exist
	m.Events, err = database.NewEventsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create events handler", err)
	}

	m.Attendees, err = database.NewAttendeesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create attendees handler", err)
	}

	m.Responses, err = database.NewResponsesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create responses handler", err)
	}

	m.Matches, err = database.NewMatchesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create matches handler", err)
	}

	m.Resolver = similarity.NewDefaultResolver(
		m.Responses,
		similarity.WithLogger(m.log),
		similarity.WithFallbackHook(func(err error) { m.Metrics.IncFallback() }),
	)

	m.Engine = matching.NewEngine(
		matchRepository{m.Attendees, m.Matches},
		m.Resolver,
		m.summarizer,
		matching.WithLogger(m.log),
		matching.WithMetrics(m.Metrics),
		matching.WithConfig(m.matchConfig),
	)

	m.Introducer = introduction.NewIntroducer(
		m.Matches,
		m.notifier,
		introduction.WithLogger(m.log),
		introduction.WithMetrics(m.Metrics),
		introduction.WithInterval(m.introPacing),
	)

	return m, nil
}

// Close closes the database connection
func (m *Matchmaker) Close() error {
	if m.DB != nil && m.DB.Instance != nil {
		return m.DB.Instance.Close()
	}
	return nil
}

// EmbeddingDim returns the dimension of stored response embeddings.
func (m *Matchmaker) EmbeddingDim() int {
	return m.embeddingDim
}

// SetPipeline sets the intake pipeline used by SubmitResponse
func (m *Matchmaker) SetPipeline(pipeline *pipeline.Pipeline) {
	m.Pipeline = pipeline
}

// UseDefaultPipeline sets up the local embedding pipeline
// This uses DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions)
func (m *Matchmaker) UseDefaultPipeline() error {
	if m.embeddingDim != pipeline.DefaultEmbeddingDimension {
		return helper.NewError("create default embedder", fmt.Errorf("embedding dimension %d does not match model dimension %d", m.embeddingDim, pipeline.DefaultEmbeddingDimension))
	}

	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	m.Pipeline = pipeline.NewPipeline(embedder)
	return nil
}

// UseOpenAIPipeline sets up an embedding pipeline on the OpenAI API with
// vectors shortened to the embedding dimension of the store.
func (m *Matchmaker) UseOpenAIPipeline(apiKey string, baseURL string, embeddingModel string) {
	m.Pipeline = pipeline.NewPipeline(pipeline.OpenAIEmbedder(pipeline.OpenAIEmbedderConfig{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      embeddingModel,
		Dimensions: m.embeddingDim,
	}))
}

// Authorize loads the event and checks that ownerID owns it.
func (m *Matchmaker) Authorize(ctx context.Context, ownerID string, eventID uuid.UUID) (*model.Event, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	event, err := m.Events.SelectEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.IsOwnedBy(ownerID) {
		return nil, ErrForbidden
	}

	return event, nil
}

// GenerateMatches creates new matches for all completed attendees of the event.
// Runs for the same event are serialized.
func (m *Matchmaker) GenerateMatches(ctx context.Context, eventID uuid.UUID) (*model.GenerateResult, error) {
	unlock := m.locks.Lock(eventID)
	defer unlock()

	return m.Engine.Generate(ctx, eventID)
}

// SendIntroductions introduces the attendees of the selected matches.
func (m *Matchmaker) SendIntroductions(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) (*model.IntroductionResult, error) {
	return m.Introducer.Introduce(ctx, eventID, matchIDs)
}

// ImportAttendees adds attendees to an event with status imported.
// Rows with a missing or repeated email are skipped, as are emails that
// are already registered for the event.
func (m *Matchmaker) ImportAttendees(ctx context.Context, eventID uuid.UUID, rows []*model.AttendeeImport) (*model.ImportResult, error) {
	valid, reasons := intake.Prepare(rows)

	inserted, err := m.Attendees.InsertAttendees(ctx, eventID, valid)
	if err != nil {
		return nil, helper.NewError("insert attendees", err)
	}

	if existing := len(valid) - len(inserted); existing > 0 {
		reasons = append(reasons, fmt.Sprintf("%d attendees already exist in this event", existing))
	}

	result := &model.ImportResult{
		Success:  true,
		Imported: len(inserted),
		Skipped:  len(rows) - len(inserted),
		Errors:   reasons,
	}
	if result.Skipped > 0 {
		result.Message = fmt.Sprintf("Imported %d attendees (%d skipped)", result.Imported, result.Skipped)
	} else {
		result.Message = fmt.Sprintf("Imported %d attendees", result.Imported)
	}

	m.log.Info("Imported attendees",
		slog.String("event_id", eventID.String()),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}

// ImportCSV parses a CSV with an email column and imports its rows.
func (m *Matchmaker) ImportCSV(ctx context.Context, eventID uuid.UUID, r io.Reader) (*model.ImportResult, error) {
	rows, err := intake.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return m.ImportAttendees(ctx, eventID, rows)
}

// SubmitResponse stores the intake answers of an attendee with their
// embedding and marks the attendee as completed.
func (m *Matchmaker) SubmitResponse(ctx context.Context, attendeeID uuid.UUID, answers model.Answers, mode model.ResponseMode, transcript *string) (*model.Response, error) {
	if m.Pipeline == nil {
		return nil, helper.NewError("process response", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if _, err := m.Attendees.SelectAttendee(ctx, attendeeID); err != nil {
		return nil, helper.NewError("select attendee", err)
	}

	processed, err := m.Pipeline.ProcessResponse(ctx, answers)
	if err != nil {
		return nil, helper.NewError("process response", err)
	}

	if len(processed.Embedding) > 0 && len(processed.Embedding) != m.embeddingDim {
		return nil, helper.NewError("process response", fmt.Errorf("%w: %d != %d", similarity.ErrDimensionMismatch, len(processed.Embedding), m.embeddingDim))
	}

	response := &model.Response{
		AttendeeID: attendeeID,
		Answers:    answers,
		Embedding:  processed.Embedding,
		Topics:     processed.Topics,
		Mode:       mode,
		Transcript: transcript,
	}
	if err := m.Responses.UpsertResponse(ctx, response); err != nil {
		return nil, helper.NewError("upsert response", err)
	}

	if _, err := m.Attendees.UpdateAttendeeStatus(ctx, attendeeID, model.AttendeeStatusCompleted); err != nil {
		return nil, helper.NewError("update attendee status", err)
	}

	m.log.Info("Stored response",
		slog.String("attendee_id", attendeeID.String()),
		slog.Bool("embedded", len(response.Embedding) > 0),
	)

	return response, nil
}

// ChangeIndexType changes the vector index on response embeddings.
func (m *Matchmaker) ChangeIndexType(ctx context.Context, indexType string, params map[string]int) error {
	return m.Responses.ChangeIndexType(ctx, indexType, params)
}
