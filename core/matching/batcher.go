package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
	"golang.org/x/sync/errgroup"
)

// EmptySummaryText replaces a summary that came back empty.
const EmptySummaryText = "Similar interests and goals detected."

// Summarizer describes in a few sentences what two attendees have in common.
type Summarizer interface {
	SummarizeCommonInterests(ctx context.Context, a *model.AttendeeProfile, b *model.AttendeeProfile) (string, error)
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, a *model.AttendeeProfile, b *model.AttendeeProfile) (string, error)

func (f SummarizerFunc) SummarizeCommonInterests(ctx context.Context, a *model.AttendeeProfile, b *model.AttendeeProfile) (string, error) {
	return f(ctx, a, b)
}

// EnrichResult is the outcome for one candidate. The candidate always carries
// common interests; Err is set when the fallback text was used.
type EnrichResult struct {
	Candidate *model.MatchCandidate
	Err       error
}

// Batcher generates common interests for candidates in fixed size batches.
// Calls within a batch run concurrently, batches run one after another.
type Batcher struct {
	summarizer Summarizer
	batchSize  int
	timeout    time.Duration
	fallback   string
	logger     *slog.Logger
}

// NewBatcher creates a batcher from the enrichment part of the config
func NewBatcher(summarizer Summarizer, config model.MatchConfig, logger *slog.Logger) *Batcher {
	config = config.Normalize()
	if logger == nil {
		logger = slog.Default()
	}
	return &Batcher{
		summarizer: summarizer,
		batchSize:  config.BatchSize,
		timeout:    config.EnrichTimeout,
		fallback:   config.FallbackInterests,
		logger:     logger,
	}
}

// Enrich returns one result per candidate in input order.
// Once ctx is done, the remaining candidates get the fallback text without a call.
func (b *Batcher) Enrich(ctx context.Context, candidates []*model.MatchCandidate) []EnrichResult {
	results := make([]EnrichResult, len(candidates))

	for start := 0; start < len(candidates); start += b.batchSize {
		end := min(start+b.batchSize, len(candidates))

		if err := ctx.Err(); err != nil {
			for i := start; i < end; i++ {
				results[i] = b.failed(candidates[i], err)
			}
			continue
		}

		var group errgroup.Group
		for i := start; i < end; i++ {
			group.Go(func() error {
				results[i] = b.enrichOne(ctx, candidates[i])
				return nil
			})
		}
		_ = group.Wait()
	}

	return results
}

func (b *Batcher) enrichOne(ctx context.Context, candidate *model.MatchCandidate) (result EnrichResult) {
	defer func() {
		if r := recover(); r != nil {
			result = b.failed(candidate, fmt.Errorf("panic: %v", r))
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	summary, err := b.summarizer.SummarizeCommonInterests(callCtx, candidate.AttendeeA, candidate.AttendeeB)
	if err != nil {
		return b.failed(candidate, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = EmptySummaryText
	}
	candidate.CommonInterests = summary

	return EnrichResult{Candidate: candidate}
}

func (b *Batcher) failed(candidate *model.MatchCandidate, err error) EnrichResult {
	b.logger.Warn("Using fallback common interests",
		slog.String("attendee_a_id", candidate.AttendeeA.ID.String()),
		slog.String("attendee_b_id", candidate.AttendeeB.ID.String()),
		slog.String("error", err.Error()),
	)
	candidate.CommonInterests = b.fallback
	return EnrichResult{
		Candidate: candidate,
		Err:       helper.NewError("generate common interests", err),
	}
}
