package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEntityType(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"B-ORG", "ORG"},
		{"I-LOC", "LOC"},
		{"MISC", "MISC"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run("Normalize "+tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeEntityType(tt.label))
		})
	}
}

func TestUniqueTopics(t *testing.T) {
	t.Run("Drops blanks and case-insensitive duplicates", func(t *testing.T) {
		topics := uniqueTopics([]string{" Berlin ", "berlin", "", "Go", "GO", "Kubernetes"})
		assert.Equal(t, []string{"Berlin", "Go", "Kubernetes"}, topics)
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Empty(t, uniqueTopics(nil))
	})
}

func TestDefaultTopicExtractor(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping DefaultTopicExtractor test in short mode (requires model download)")
	}

	extractor, err := DefaultTopicExtractor()
	require.NoError(t, err)

	t.Run("Extract topics from text", func(t *testing.T) {
		topics, err := extractor(context.Background(), "I work at Siemens in Munich and love Kubernetes.")
		require.NoError(t, err)
		t.Logf("Detected topics: %v", topics)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := extractor(ctx, "Berlin")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
