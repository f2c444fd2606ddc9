package model

import "time"

// MatchConfig represents configuration for a match generation run
type MatchConfig struct {
	// Number of nearest neighbours looked up per attendee
	K int `json:"k"`

	// Enrichment parameters
	BatchSize         int           `json:"batch_size"`
	EnrichTimeout     time.Duration `json:"enrich_timeout"`
	FallbackInterests string        `json:"fallback_interests"`
}

// DefaultMatchConfig returns a sensible default configuration
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		K:                 3,
		BatchSize:         5,
		EnrichTimeout:     20 * time.Second,
		FallbackInterests: "Common interests identified through profile similarity.",
	}
}

// Normalize replaces unset values with their defaults.
func (c MatchConfig) Normalize() MatchConfig {
	defaults := DefaultMatchConfig()
	if c.K <= 0 {
		c.K = defaults.K
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.EnrichTimeout <= 0 {
		c.EnrichTimeout = defaults.EnrichTimeout
	}
	if c.FallbackInterests == "" {
		c.FallbackInterests = defaults.FallbackInterests
	}
	return c
}
