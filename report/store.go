// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcodagnone/concilia/matcher"
	"github.com/jcodagnone/concilia/spatial"
)

// CellResolution is the H3 resolution stored next to every source point.
// Resolution 7 cells cover about 5 km².
const CellResolution = 7

// Run describes one matching invocation.
type Run struct {
	ID          int64          `json:"id"`
	Input       string         `json:"input"`
	Config      matcher.Config `json:"config"`
	SourceCount int            `json:"source_count"`
	TargetCount int            `json:"target_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Store keeps an audit trail of runs in DuckDB.
type Store interface {
	// CreateSchema creates the runs and results tables
	CreateSchema() error

	// SaveRun stores a run and its results and returns the run id
	SaveRun(run *Run, results []matcher.Result) (int64, error)

	// ListRuns returns every stored run, newest first
	ListRuns() ([]*Run, error)

	// ListResults returns the results of a run in source order
	ListResults(runID int64) ([]matcher.Result, error)
}

type sqlStore struct {
	db *sql.DB
}

// NewStore returns a Store backed by db, which must use the duckdb driver.
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS runs_seq START 1;

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY DEFAULT nextval('runs_seq'),
			input VARCHAR NOT NULL,
			lat_threshold DOUBLE NOT NULL,
			lon_threshold DOUBLE NOT NULL,
			similarity_threshold INTEGER NOT NULL,
			source_count INTEGER NOT NULL,
			target_count INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS results (
			run_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			source_name VARCHAR NOT NULL,
			source_point VARCHAR NOT NULL,
			source_locality VARCHAR NOT NULL,
			source_line INTEGER NOT NULL,
			matched_name VARCHAR,
			matched_point VARCHAR,
			similarity INTEGER,
			target_index INTEGER,
			distance_m DOUBLE,
			h3_res7 UBIGINT,
			PRIMARY KEY (run_id, position)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating report schema: %w", err)
	}

	return nil
}

func (s *sqlStore) SaveRun(run *Run, results []matcher.Result) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}

	var runID int64

	err = tx.QueryRow(`
		INSERT INTO runs (input, lat_threshold, lon_threshold, similarity_threshold, source_count, target_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		run.Input,
		run.Config.LatThreshold,
		run.Config.LonThreshold,
		run.Config.SimilarityThreshold,
		run.SourceCount,
		run.TargetCount,
		run.CreatedAt,
	).Scan(&runID)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("inserting run: %w", err), tx.Rollback())
	}

	stmt, err := tx.Prepare(`
		INSERT INTO results (
			run_id,
			position,
			source_name,
			source_point,
			source_locality,
			source_line,
			matched_name,
			matched_point,
			similarity,
			target_index,
			distance_m,
			h3_res7
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("preparing results insert: %w", err), tx.Rollback())
	}
	defer stmt.Close()

	for i, r := range results {
		cell, err := r.SourcePoint.Cell(CellResolution)
		if err != nil {
			return 0, errors.Join(err, tx.Rollback())
		}

		var (
			name, point  sql.NullString
			meters       sql.NullFloat64
			score, index sql.NullInt64
		)

		if m := r.Match; m != nil {
			name = sql.NullString{String: m.Name, Valid: true}
			point = sql.NullString{String: m.Point.String(), Valid: true}
			score = sql.NullInt64{Int64: int64(m.Score), Valid: true}
			index = sql.NullInt64{Int64: int64(m.TargetIndex), Valid: true}
			meters = sql.NullFloat64{Float64: m.DistanceMeters, Valid: true}
		}

		if _, err := stmt.Exec(
			runID,
			i,
			r.SourceName,
			r.SourcePoint.String(),
			r.SourceLocality,
			r.SourceLine,
			name,
			point,
			score,
			index,
			meters,
			int64(cell),
		); err != nil {
			return 0, errors.Join(fmt.Errorf("inserting result %d: %w", i, err), tx.Rollback())
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	run.ID = runID

	return runID, nil
}

func (s *sqlStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT id, input, lat_threshold, lon_threshold, similarity_threshold, source_count, target_count, created_at
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID,
			&run.Input,
			&run.Config.LatThreshold,
			&run.Config.LonThreshold,
			&run.Config.SimilarityThreshold,
			&run.SourceCount,
			&run.TargetCount,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *sqlStore) ListResults(runID int64) ([]matcher.Result, error) {
	rows, err := s.db.Query(`
		SELECT
			source_name, source_point, source_locality, source_line,
			matched_name, matched_point, similarity, target_index, distance_m
		FROM results
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []matcher.Result

	for rows.Next() {
		var (
			r            matcher.Result
			name         sql.NullString
			point        sql.Null[spatial.Point]
			meters       sql.NullFloat64
			score, index sql.NullInt64
		)

		if err := rows.Scan(
			&r.SourceName,
			&r.SourcePoint,
			&r.SourceLocality,
			&r.SourceLine,
			&name,
			&point,
			&score,
			&index,
			&meters,
		); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		if name.Valid {
			r.Match = &matcher.Match{
				Name:           name.String,
				Point:          point.V,
				Score:          int(score.Int64),
				TargetIndex:    int(index.Int64),
				DistanceMeters: meters.Float64,
			}
		}

		results = append(results, r)
	}

	return results, rows.Err()
}
