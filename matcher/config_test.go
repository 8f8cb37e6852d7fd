// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.InDelta(t, 0.2, cfg.LatThreshold, 1e-12)
	assert.InDelta(t, 0.2, cfg.LonThreshold, 1e-12)
	assert.Equal(t, 75, cfg.SimilarityThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"zero thresholds", func(c *Config) { c.LatThreshold, c.LonThreshold, c.SimilarityThreshold = 0, 0, 0 }, true},
		{"similarity 100", func(c *Config) { c.SimilarityThreshold = 100 }, true},
		{"negative lat", func(c *Config) { c.LatThreshold = -0.1 }, false},
		{"nan lon", func(c *Config) { c.LonThreshold = math.NaN() }, false},
		{"infinite lat", func(c *Config) { c.LatThreshold = math.Inf(1) }, false},
		{"similarity above 100", func(c *Config) { c.SimilarityThreshold = 101 }, false},
		{"negative similarity", func(c *Config) { c.SimilarityThreshold = -1 }, false},
		{"negative workers", func(c *Config) { c.Workers = -2 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimilarityThreshold = 150

	m, err := New(cfg)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
