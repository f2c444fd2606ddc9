package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultMatchConfig()

		assert.Equal(t, 3, config.K, "Default K should be 3")
		assert.Equal(t, 5, config.BatchSize, "Default BatchSize should be 5")
		assert.Equal(t, 20*time.Second, config.EnrichTimeout)
		assert.Equal(t, "Common interests identified through profile similarity.", config.FallbackInterests)
	})

	t.Run("Can be modified after creation", func(t *testing.T) {
		config := DefaultMatchConfig()

		config.K = 10
		config.BatchSize = 2

		assert.Equal(t, 10, config.K)
		assert.Equal(t, 2, config.BatchSize)
	})
}

func TestMatchConfig_Normalize(t *testing.T) {
	t.Run("Fills unset values with defaults", func(t *testing.T) {
		config := MatchConfig{}.Normalize()

		assert.Equal(t, DefaultMatchConfig(), config)
	})

	t.Run("Keeps explicit values", func(t *testing.T) {
		config := MatchConfig{K: 1, BatchSize: 7, EnrichTimeout: time.Second, FallbackInterests: "x"}.Normalize()

		assert.Equal(t, 1, config.K)
		assert.Equal(t, 7, config.BatchSize)
		assert.Equal(t, time.Second, config.EnrichTimeout)
		assert.Equal(t, "x", config.FallbackInterests)
	})

	t.Run("Replaces negative values", func(t *testing.T) {
		config := MatchConfig{K: -1, BatchSize: -5}.Normalize()

		assert.Equal(t, 3, config.K)
		assert.Equal(t, 5, config.BatchSize)
	})
}
