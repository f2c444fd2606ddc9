package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/core/similarity"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/metrics"
	"github.com/siherrmann/matchmaker/model"
)

// Phase is a state of one generation run.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseResolvingPopulation  Phase = "resolving_population"
	PhaseCollectingCandidates Phase = "collecting_candidates"
	PhaseEnriching            Phase = "enriching"
	PhasePersisting           Phase = "persisting"
	PhaseDone                 Phase = "done"
)

// Repository is the storage the engine reads from and writes to.
type Repository interface {
	SelectEligibleAttendees(ctx context.Context, eventID uuid.UUID) ([]*model.AttendeeProfile, error)
	SelectMatchPairs(ctx context.Context, eventID uuid.UUID) ([]model.Pair, error)
	MatchInserter
}

// Engine runs match generation for one event at a time per call.
type Engine struct {
	repository Repository
	resolver   similarity.Strategy
	summarizer Summarizer
	config     model.MatchConfig
	logger     *slog.Logger
	metrics    *metrics.Manager
	observer   func(eventID uuid.UUID, phase Phase)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger of the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(manager *metrics.Manager) Option {
	return func(e *Engine) {
		e.metrics = manager
	}
}

// WithConfig sets the match configuration. Unset values keep their defaults.
func WithConfig(config model.MatchConfig) Option {
	return func(e *Engine) {
		e.config = config.Normalize()
	}
}

// WithPhaseObserver sets a function that is called on every phase transition.
func WithPhaseObserver(observer func(eventID uuid.UUID, phase Phase)) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// NewEngine creates a new match engine
func NewEngine(repository Repository, resolver similarity.Strategy, summarizer Summarizer, opts ...Option) *Engine {
	e := &Engine{
		repository: repository,
		resolver:   resolver,
		summarizer: summarizer,
		config:     model.DefaultMatchConfig(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Config returns the active match configuration.
func (e *Engine) Config() model.MatchConfig {
	return e.config
}

// Generate creates matches for all eligible attendees of an event that are
// not matched with each other yet.
// Per-item failures end up in the result errors. An error is only returned
// when storage cannot be read or ctx is done before persisting.
func (e *Engine) Generate(ctx context.Context, eventID uuid.UUID) (result *model.GenerateResult, err error) {
	start := time.Now()
	logger := e.logger.With(slog.String("event_id", eventID.String()))
	outcome := metrics.OutcomeSuccess
	defer func() {
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		e.metrics.ObserveRun(outcome, time.Since(start))
	}()

	e.enter(logger, eventID, PhaseIdle)
	e.enter(logger, eventID, PhaseResolvingPopulation)

	eligible, err := e.repository.SelectEligibleAttendees(ctx, eventID)
	if err != nil {
		return nil, helper.NewError("select eligible attendees", err)
	}

	if len(eligible) < 2 {
		outcome = metrics.OutcomeInsufficient
		e.enter(logger, eventID, PhaseDone)
		return &model.GenerateResult{
			Success: true,
			Count:   0,
			Message: model.ErrInsufficientPopulation.Error(),
		}, nil
	}

	pairs, err := e.repository.SelectMatchPairs(ctx, eventID)
	if err != nil {
		return nil, helper.NewError("select existing matches", err)
	}
	filter := NewPairFilter()
	filter.Seed(pairs)

	e.enter(logger, eventID, PhaseCollectingCandidates)

	collector := NewCollector(e.resolver, e.config.K, logger)
	collection, err := collector.Collect(ctx, eligible, filter)
	if errors.Is(err, model.ErrInsufficientPopulation) {
		outcome = metrics.OutcomeInsufficient
		e.enter(logger, eventID, PhaseDone)
		return &model.GenerateResult{Success: true, Message: err.Error()}, nil
	}
	if err != nil {
		return nil, helper.NewError("collect candidates", err)
	}

	var runErrors []string
	for _, collectErr := range collection.Errors {
		runErrors = append(runErrors, collectErr.Error())
	}
	e.metrics.AddCandidates(len(collection.Candidates))
	e.metrics.AddSkippedPairs(collection.Skipped)
	logger.Info("Collected match candidates",
		slog.Int("eligible", len(eligible)),
		slog.Int("existing_pairs", len(pairs)),
		slog.Int("candidates", len(collection.Candidates)),
	)

	e.enter(logger, eventID, PhaseEnriching)

	batcher := NewBatcher(e.summarizer, e.config, logger)
	enriched := batcher.Enrich(ctx, collection.Candidates)

	candidates := make([]*model.MatchCandidate, 0, len(enriched))
	for _, r := range enriched {
		if r.Err != nil {
			e.metrics.IncEnrichmentFailure()
			runErrors = append(runErrors, r.Err.Error())
		}
		candidates = append(candidates, r.Candidate)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, helper.NewError("generate matches", ctxErr)
	}

	e.enter(logger, eventID, PhasePersisting)

	created, err := NewWriter(e.repository).Persist(ctx, eventID, candidates)
	if err != nil {
		e.metrics.IncInsertFailure()
		logger.Error("Failed to insert matches", slog.String("error", err.Error()))
		runErrors = append(runErrors, fmt.Sprintf("Failed to insert matches: %v", err))
	}
	e.metrics.AddMatchesCreated(created)

	e.enter(logger, eventID, PhaseDone)

	return &model.GenerateResult{
		Success: true,
		Count:   created,
		Errors:  runErrors,
		Message: fmt.Sprintf("Generated %d new matches", created),
	}, nil
}

func (e *Engine) enter(logger *slog.Logger, eventID uuid.UUID, phase Phase) {
	logger.Debug("Match generation phase", slog.String("phase", string(phase)))
	if e.observer != nil {
		e.observer(eventID, phase)
	}
}
