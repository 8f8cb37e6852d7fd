// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

// Package matcher pairs every source record with its best target candidate.
//
// A candidate must lie inside a per-axis bounding box around the source
// (latitude and longitude deltas tested independently, bounds inclusive) and
// its name must score at least the similarity threshold. Among those, the
// highest score wins and ties go to the candidate seen first in target order.
//
// Every source record is compared against every target record, so the cost is
// O(|source| * |target|) name comparisons at worst. There is no spatial index:
// the tool is meant for lists of hundreds to a few thousand entries.
package matcher

import (
	"strings"
	"sync"

	"github.com/jcodagnone/concilia/records"
	"github.com/jcodagnone/concilia/similarity"
)

// Matcher holds a validated configuration and a name scorer.
type Matcher struct {
	cfg      Config
	score    similarity.Scorer
	progress func()
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithScorer replaces the default token sort scorer.
func WithScorer(s similarity.Scorer) Option {
	return func(m *Matcher) {
		m.score = s
	}
}

// WithProgress registers fn to be called once per finished source record.
// With more than one worker fn is called concurrently.
func WithProgress(fn func()) Option {
	return func(m *Matcher) {
		m.progress = fn
	}
}

// New returns a Matcher for cfg.
func New(cfg Config, opts ...Option) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		cfg:   cfg,
		score: similarity.TokenSortRatio,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Config returns the configuration the matcher was built with.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Match returns one Result per source record, in source order. Both inputs
// are checked before any comparison: a record with a blank name or a
// non-finite coordinate aborts the run with a *PreconditionError and no results.
func (m *Matcher) Match(source, target []records.GeoRecord) ([]Result, error) {
	if err := validateRecords(InputSource, source); err != nil {
		return nil, err
	}

	if err := validateRecords(InputTarget, target); err != nil {
		return nil, err
	}

	results := make([]Result, len(source))

	if m.cfg.Workers <= 1 {
		for i := range source {
			results[i] = m.bestMatch(&source[i], target)
			m.done()
		}

		return results, nil
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, m.cfg.Workers)

	for i := range source {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			// Each goroutine owns results[i]; no other synchronization is needed.
			results[i] = m.bestMatch(&source[i], target)
			m.done()
		}(i)
	}

	wg.Wait()

	return results, nil
}

func (m *Matcher) done() {
	if m.progress != nil {
		m.progress()
	}
}

// bestMatch scans target in order and keeps the first candidate with the
// strictly highest score not below the threshold.
func (m *Matcher) bestMatch(s *records.GeoRecord, target []records.GeoRecord) Result {
	var (
		best      *records.GeoRecord
		bestIndex int
		bestScore int
	)

	for j := range target {
		t := &target[j]

		if !s.Point.WithinBox(t.Point, m.cfg.LatThreshold, m.cfg.LonThreshold) {
			continue
		}

		score := m.score(s.Name, t.Name)
		if score >= m.cfg.SimilarityThreshold && score > bestScore {
			best, bestIndex, bestScore = t, j, score
		}
	}

	result := Result{
		SourceName:     s.Name,
		SourcePoint:    s.Point,
		SourceLocality: s.Locality,
		SourceLine:     s.Line,
	}

	if best != nil {
		result.Match = &Match{
			Name:           best.Name,
			Point:          best.Point,
			Score:          bestScore,
			TargetIndex:    bestIndex,
			DistanceMeters: s.Point.HaversineDistance(&best.Point),
		}
	}

	return result
}

func validateRecords(input Input, recs []records.GeoRecord) error {
	for i := range recs {
		r := &recs[i]

		if strings.TrimSpace(r.Name) == "" {
			return &PreconditionError{Input: input, Index: i, Line: r.Line, Field: "name", Reason: "is blank"}
		}

		if !r.Point.IsFinite() {
			return &PreconditionError{Input: input, Index: i, Line: r.Line, Field: "coordinates", Reason: "are not finite"}
		}
	}

	return nil
}
