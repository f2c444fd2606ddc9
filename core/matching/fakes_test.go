package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/model"
)

// memoryRepository stores matches in memory and enforces one row per unordered pair.
type memoryRepository struct {
	mu        sync.Mutex
	eligible  []*model.AttendeeProfile
	matches   []*model.Match
	selectErr error
	pairsErr  error
	insertErr error
	inserts   int
}

func (r *memoryRepository) SelectEligibleAttendees(ctx context.Context, eventID uuid.UUID) ([]*model.AttendeeProfile, error) {
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	return r.eligible, nil
}

func (r *memoryRepository) SelectMatchPairs(ctx context.Context, eventID uuid.UUID) ([]model.Pair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pairsErr != nil {
		return nil, r.pairsErr
	}
	pairs := make([]model.Pair, len(r.matches))
	for i, match := range r.matches {
		pairs[i] = model.Pair{AttendeeAID: match.AttendeeAID, AttendeeBID: match.AttendeeBID}
	}
	return pairs, nil
}

func (r *memoryRepository) InsertMatches(ctx context.Context, eventID uuid.UUID, matches []*model.Match) ([]*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return nil, r.insertErr
	}

	created := []*model.Match{}
	for _, match := range matches {
		if r.hasPair(match.AttendeeAID, match.AttendeeBID) {
			continue
		}
		match.ID = uuid.New()
		r.matches = append(r.matches, match)
		created = append(created, match)
	}
	return created, nil
}

func (r *memoryRepository) hasPair(a, b uuid.UUID) bool {
	for _, match := range r.matches {
		if (match.AttendeeAID == a && match.AttendeeBID == b) || (match.AttendeeAID == b && match.AttendeeBID == a) {
			return true
		}
	}
	return false
}

// failingSearcher makes the resolver use the in-process fallback.
type failingSearcher struct{}

func (failingSearcher) SelectSimilarAttendees(ctx context.Context, embedding []float32, eventID uuid.UUID, excludeAttendeeID uuid.UUID, limit int) ([]*model.SimilarAttendee, error) {
	return nil, errors.New("function find_similar_attendees does not exist")
}

func staticSummarizer(text string) Summarizer {
	return SummarizerFunc(func(ctx context.Context, a *model.AttendeeProfile, b *model.AttendeeProfile) (string, error) {
		return text, nil
	})
}

func testProfile(name string, embedding ...float32) *model.AttendeeProfile {
	return &model.AttendeeProfile{
		Attendee: model.Attendee{
			ID:     uuid.New(),
			Name:   &name,
			Email:  fmt.Sprintf("%s@example.com", name),
			Status: model.AttendeeStatusCompleted,
		},
		Answers:   model.Answers{"interests": "interests of " + name},
		Embedding: embedding,
	}
}

func pairSet(candidates []*model.MatchCandidate) map[string]int {
	pairs := map[string]int{}
	for _, candidate := range candidates {
		a, b := candidate.AttendeeA.ID.String(), candidate.AttendeeB.ID.String()
		if a > b {
			a, b = b, a
		}
		pairs[a+"|"+b]++
	}
	return pairs
}
