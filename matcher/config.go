// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"fmt"
	"math"
)

const (
	DefaultLatThreshold        = 0.2
	DefaultLonThreshold        = 0.2
	DefaultSimilarityThreshold = 75
)

// Config holds the matching thresholds.
type Config struct {
	// LatThreshold and LonThreshold are the maximum per-axis differences, in
	// degrees, between a source and a candidate (inclusive).
	LatThreshold float64 `json:"lat_threshold"`
	LonThreshold float64 `json:"lon_threshold"`
	// SimilarityThreshold is the minimum name score (0-100) for a candidate.
	SimilarityThreshold int `json:"similarity_threshold"`
	// Workers splits the source records across goroutines. 0 and 1 run sequentially.
	Workers int `json:"-"`
}

// DefaultConfig returns the thresholds used when none are given.
func DefaultConfig() Config {
	return Config{
		LatThreshold:        DefaultLatThreshold,
		LonThreshold:        DefaultLonThreshold,
		SimilarityThreshold: DefaultSimilarityThreshold,
		Workers:             1,
	}
}

// Validate checks that every threshold is within range.
func (c Config) Validate() error {
	if !validDegrees(c.LatThreshold) {
		return fmt.Errorf("%w: lat threshold must be a non-negative number (got %v)", ErrInvalidConfig, c.LatThreshold)
	}

	if !validDegrees(c.LonThreshold) {
		return fmt.Errorf("%w: lon threshold must be a non-negative number (got %v)", ErrInvalidConfig, c.LonThreshold)
	}

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return fmt.Errorf("%w: similarity threshold must be between 0 and 100 (got %d)", ErrInvalidConfig, c.SimilarityThreshold)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers can't be negative (got %d)", ErrInvalidConfig, c.Workers)
	}

	return nil
}

func validDegrees(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
