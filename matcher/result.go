// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"github.com/jcodagnone/concilia/spatial"
)

// Match is the selected candidate for a source record.
type Match struct {
	Name           string        `json:"name"`
	Point          spatial.Point `json:"point"`
	Score          int           `json:"score"`
	TargetIndex    int           `json:"target_index"`
	DistanceMeters float64       `json:"distance_meters"`
}

// Result is the outcome for one source record. Match is nil when no
// candidate passed both thresholds.
type Result struct {
	SourceName     string        `json:"source_name"`
	SourcePoint    spatial.Point `json:"source_point"`
	SourceLocality string        `json:"source_locality"`
	SourceLine     int           `json:"source_line,omitempty"`
	Match          *Match        `json:"match,omitempty"`
}

// Matched reports whether a candidate was selected.
func (r Result) Matched() bool {
	return r.Match != nil
}

// Summary aggregates a run.
type Summary struct {
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	Perfect   int     `json:"perfect"` // matches scoring 100
	MeanScore float64 `json:"mean_score"`
}

// Summarize counts matched and unmatched results. MeanScore only averages
// matched results and is 0 when there are none.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}

	var scoreSum int

	for _, r := range results {
		if !r.Matched() {
			s.Unmatched++

			continue
		}

		s.Matched++
		scoreSum += r.Match.Score

		if r.Match.Score == 100 {
			s.Perfect++
		}
	}

	if s.Matched > 0 {
		s.MeanScore = float64(scoreSum) / float64(s.Matched)
	}

	return s
}
