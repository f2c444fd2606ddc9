package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/model"
	"github.com/stretchr/testify/assert"
)

func TestPairFilter(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("Empty filter has seen nothing", func(t *testing.T) {
		filter := NewPairFilter()
		assert.False(t, filter.Seen(a, b))
		assert.Equal(t, 0, filter.Size())
	})

	t.Run("Mark is symmetric", func(t *testing.T) {
		filter := NewPairFilter()
		filter.Mark(a, b)

		assert.True(t, filter.Seen(a, b))
		assert.True(t, filter.Seen(b, a))
		assert.False(t, filter.Seen(a, c))
		assert.Equal(t, 1, filter.Size())
	})

	t.Run("Marking twice keeps one pair", func(t *testing.T) {
		filter := NewPairFilter()
		filter.Mark(a, b)
		filter.Mark(b, a)

		assert.Equal(t, 1, filter.Size())
	})

	t.Run("Seed marks existing pairs", func(t *testing.T) {
		filter := NewPairFilter()
		filter.Seed([]model.Pair{
			{AttendeeAID: a, AttendeeBID: b},
			{AttendeeAID: c, AttendeeBID: a},
		})

		assert.True(t, filter.Seen(b, a))
		assert.True(t, filter.Seen(a, c))
		assert.False(t, filter.Seen(b, c))
		assert.Equal(t, 2, filter.Size())
	})

	t.Run("Self pairs count once each", func(t *testing.T) {
		filter := NewPairFilter()
		filter.Mark(a, a)
		filter.Mark(b, b)
		filter.Mark(a, b)

		assert.True(t, filter.Seen(a, a))
		assert.False(t, filter.Seen(c, c))
		assert.Equal(t, 3, filter.Size())
	})
}
