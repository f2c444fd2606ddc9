package introduction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/metrics"
	"github.com/siherrmann/matchmaker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu            sync.Mutex
	introductions []*model.Introduction
	selectErr     error
	markErr       error
	// lost holds match ids flipped by another run between load and update.
	lost   map[uuid.UUID]bool
	marked []uuid.UUID
}

func (s *memoryStore) SelectPendingIntroductions(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) ([]*model.Introduction, error) {
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	wanted := map[uuid.UUID]bool{}
	for _, id := range matchIDs {
		wanted[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*model.Introduction{}
	for _, introduction := range s.introductions {
		if introduction.EventID == eventID && wanted[introduction.MatchID] && introduction.Status != model.MatchStatusIntroduced {
			result = append(result, introduction)
		}
	}
	return result, nil
}

func (s *memoryStore) MarkMatchIntroduced(ctx context.Context, matchID uuid.UUID) (bool, error) {
	if s.markErr != nil {
		return false, s.markErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lost[matchID] {
		return false, nil
	}
	for _, introduction := range s.introductions {
		if introduction.MatchID == matchID {
			if introduction.Status == model.MatchStatusIntroduced {
				return false, nil
			}
			introduction.Status = model.MatchStatusIntroduced
			s.marked = append(s.marked, matchID)
			return true, nil
		}
	}
	return false, nil
}

func testIntroduction(eventID uuid.UUID) *model.Introduction {
	nameA := "Ada"
	return &model.Introduction{
		MatchID:   uuid.New(),
		EventID:   eventID,
		EventName: "Founders Night",
		Channel:   model.OutreachChannelEmail,
		A:         model.Contact{AttendeeID: uuid.New(), Name: &nameA, Email: "ada@example.com"},
		B:         model.Contact{AttendeeID: uuid.New(), Email: "grace@example.com"},
		Status:    model.MatchStatusPending,
	}
}

func matchIDs(introductions ...*model.Introduction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(introductions))
	for _, introduction := range introductions {
		ids = append(ids, introduction.MatchID)
	}
	return ids
}

func TestIntroduce(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("Empty match ids", func(t *testing.T) {
		introducer := NewIntroducer(&memoryStore{}, &LogNotifier{})

		result, err := introducer.Introduce(ctx, eventID, nil)
		assert.ErrorIs(t, err, ErrNoMatchIDs)
		assert.Nil(t, result)
	})

	t.Run("Sends every pending introduction", func(t *testing.T) {
		first, second := testIntroduction(eventID), testIntroduction(eventID)
		store := &memoryStore{introductions: []*model.Introduction{first, second}}
		var notified []uuid.UUID
		notifier := NotifierFunc(func(ctx context.Context, introduction *model.Introduction) error {
			notified = append(notified, introduction.MatchID)
			return nil
		})

		introducer := NewIntroducer(store, notifier, WithInterval(0))
		result, err := introducer.Introduce(ctx, eventID, matchIDs(first, second))
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, 2, result.Sent)
		assert.Equal(t, 0, result.Failed)
		assert.Empty(t, result.Errors)
		assert.Equal(t, "Sent 2 introductions successfully", result.Message)
		assert.Equal(t, matchIDs(first, second), notified)
		assert.ElementsMatch(t, matchIDs(first, second), store.marked)
	})

	t.Run("Already introduced matches are not sent again", func(t *testing.T) {
		introduction := testIntroduction(eventID)
		store := &memoryStore{introductions: []*model.Introduction{introduction}}
		introducer := NewIntroducer(store, &LogNotifier{}, WithInterval(0))

		_, err := introducer.Introduce(ctx, eventID, matchIDs(introduction))
		require.NoError(t, err)

		result, err := introducer.Introduce(ctx, eventID, matchIDs(introduction))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Sent)
		assert.Equal(t, noEligibleMessage, result.Message)
	})

	t.Run("Notifier failure is reported per match", func(t *testing.T) {
		ok, broken := testIntroduction(eventID), testIntroduction(eventID)
		store := &memoryStore{introductions: []*model.Introduction{ok, broken}}
		notifier := NotifierFunc(func(ctx context.Context, introduction *model.Introduction) error {
			if introduction.MatchID == broken.MatchID {
				return errors.New("Email failed: mailbox full")
			}
			return nil
		})

		introducer := NewIntroducer(store, notifier, WithInterval(0))
		result, err := introducer.Introduce(ctx, eventID, matchIDs(ok, broken))
		require.NoError(t, err)

		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Match "+broken.MatchID.String()+": Email failed: mailbox full", result.Errors[0])
		assert.Equal(t, "Sent 1 introduction (1 failed)", result.Message)
		assert.Equal(t, []uuid.UUID{ok.MatchID}, store.marked)
	})

	t.Run("Lost status race is not counted as sent", func(t *testing.T) {
		introduction := testIntroduction(eventID)
		store := &memoryStore{
			introductions: []*model.Introduction{introduction},
			lost:          map[uuid.UUID]bool{introduction.MatchID: true},
		}

		introducer := NewIntroducer(store, &LogNotifier{}, WithInterval(0), WithMetrics(metrics.NewManager()))
		result, err := introducer.Introduce(ctx, eventID, matchIDs(introduction))
		require.NoError(t, err)

		assert.Equal(t, 0, result.Sent)
		assert.Equal(t, 0, result.Failed)
	})

	t.Run("Status update error still counts as sent", func(t *testing.T) {
		introduction := testIntroduction(eventID)
		store := &memoryStore{introductions: []*model.Introduction{introduction}, markErr: errors.New("connection reset")}

		introducer := NewIntroducer(store, &LogNotifier{}, WithInterval(0))
		result, err := introducer.Introduce(ctx, eventID, matchIDs(introduction))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
	})

	t.Run("Load error is returned", func(t *testing.T) {
		introducer := NewIntroducer(&memoryStore{selectErr: errors.New("db down")}, &LogNotifier{})

		result, err := introducer.Introduce(ctx, eventID, []uuid.UUID{uuid.New()})
		assert.EqualError(t, err, "db down")
		assert.Nil(t, result)
	})

	t.Run("Deliveries are paced", func(t *testing.T) {
		introductions := []*model.Introduction{testIntroduction(eventID), testIntroduction(eventID), testIntroduction(eventID)}
		store := &memoryStore{introductions: introductions}

		introducer := NewIntroducer(store, &LogNotifier{}, WithInterval(30*time.Millisecond))
		start := time.Now()
		result, err := introducer.Introduce(ctx, eventID, matchIDs(introductions...))
		require.NoError(t, err)

		assert.Equal(t, 3, result.Sent)
		assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond, "Expected two pauses between three deliveries")
	})

	t.Run("Cancelled context fails the remaining matches", func(t *testing.T) {
		introductions := []*model.Introduction{testIntroduction(eventID), testIntroduction(eventID)}
		store := &memoryStore{introductions: introductions}
		cancelled, cancel := context.WithCancel(ctx)
		notifier := NotifierFunc(func(ctx context.Context, introduction *model.Introduction) error {
			cancel()
			return nil
		})

		introducer := NewIntroducer(store, notifier, WithInterval(time.Hour))
		result, err := introducer.Introduce(cancelled, eventID, matchIDs(introductions...))
		require.NoError(t, err)

		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], introductions[1].MatchID.String())
	})
}

func TestResultMessage(t *testing.T) {
	assert.Equal(t, "Sent 0 introductions successfully", resultMessage(0, 0))
	assert.Equal(t, "Sent 1 introduction successfully", resultMessage(1, 0))
	assert.Equal(t, "Sent 3 introductions (2 failed)", resultMessage(3, 2))
}
