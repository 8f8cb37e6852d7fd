// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jcodagnone/concilia/config"
	"github.com/jcodagnone/concilia/matcher"
	"github.com/jcodagnone/concilia/records"
	"github.com/jcodagnone/concilia/similarity"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// reconciliation is the outcome of loading one input file and matching it.
type reconciliation struct {
	input     string
	cfg       *config.Config
	partition records.Partition
	results   []matcher.Result
}

// loadConfig resolves the run configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return cfg, nil
}

// reconcile loads input, partitions it and matches the source group against
// the target group. No results are returned if any record is invalid.
func reconcile(input string, cfg *config.Config) (*reconciliation, error) {
	ds, err := records.LoadFile(input)
	if err != nil {
		return nil, err
	}

	log.Printf("📄 %d valid rows read from %s", len(ds.Records), input)

	for reason, n := range ds.RejectedBy() {
		log.Printf("⚠️  %d rows discarded (%s)", n, reason)
	}

	p := ds.Partition(cfg.SourceBase, cfg.TargetBase)
	log.Printf("📍 %d %q records, %d %q records", len(p.Source), cfg.SourceBase, len(p.Target), cfg.TargetBase)

	if p.Other > 0 {
		log.Printf("⚠️  %d records belong to neither base and were ignored", p.Other)
	}

	opts := []matcher.Option{
		matcher.WithScorer(similarity.NewTokenSortScorer(cfg.FoldAccents)),
	}

	if isatty.IsTerminal(os.Stderr.Fd()) && len(p.Source) > 0 {
		bar := progressbar.NewOptions(len(p.Source),
			progressbar.OptionSetDescription("Comparing "+cfg.SourceBase),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		opts = append(opts, matcher.WithProgress(func() {
			_ = bar.Add(1)
		}))
	}

	m, err := matcher.New(cfg.Matcher, opts...)
	if err != nil {
		return nil, err
	}

	results, err := m.Match(p.Source, p.Target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}

	s := matcher.Summarize(results)
	log.Printf("✅ %d of %d records matched (%d perfect, mean score %.1f), %d without match",
		s.Matched, s.Total, s.Perfect, s.MeanScore, s.Unmatched)

	return &reconciliation{
		input:     input,
		cfg:       cfg,
		partition: p,
		results:   results,
	}, nil
}
