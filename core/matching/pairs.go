package matching

import (
	"github.com/google/uuid"
	"github.com/siherrmann/matchmaker/model"
)

// PairFilter is a set of unordered attendee pairs.
// Every pair is stored once under its ordered key.
// It is not safe for concurrent use.
type PairFilter struct {
	seen map[string]struct{}
}

// NewPairFilter creates an empty filter
func NewPairFilter() *PairFilter {
	return &PairFilter{seen: make(map[string]struct{})}
}

func pairKey(a, b uuid.UUID) string {
	if b.String() < a.String() {
		a, b = b, a
	}
	return a.String() + "-" + b.String()
}

// Seen reports whether the pair was marked in either order.
func (f *PairFilter) Seen(a, b uuid.UUID) bool {
	_, ok := f.seen[pairKey(a, b)]
	return ok
}

// Mark records the pair.
func (f *PairFilter) Mark(a, b uuid.UUID) {
	f.seen[pairKey(a, b)] = struct{}{}
}

// Seed marks all given pairs.
func (f *PairFilter) Seed(pairs []model.Pair) {
	for _, pair := range pairs {
		f.Mark(pair.AttendeeAID, pair.AttendeeBID)
	}
}

// Size returns the number of distinct unordered pairs.
func (f *PairFilter) Size() int {
	return len(f.seen)
}
