// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/concilia/matcher"
	"github.com/jcodagnone/concilia/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []matcher.Result {
	return []matcher.Result{
		{
			SourceName:     "Posto Central",
			SourcePoint:    spatial.Point{Lat: -23.5, Lng: -46.6},
			SourceLocality: "São Paulo",
			SourceLine:     2,
			Match: &matcher.Match{
				Name:           "central posto",
				Point:          spatial.Point{Lat: -23.52, Lng: -46.61},
				Score:          100,
				TargetIndex:    0,
				DistanceMeters: 2440.5,
			},
		},
		{
			SourceName:     "Loja A",
			SourcePoint:    spatial.Point{Lat: -23.501, Lng: -46.601},
			SourceLocality: "São Paulo, Centro",
			SourceLine:     3,
		},
		{
			SourceName:     "Null Island",
			SourcePoint:    spatial.Point{Lat: 0, Lng: 0},
			SourceLocality: "",
			SourceLine:     4,
			Match: &matcher.Match{
				Name:        "null island",
				Point:       spatial.Point{Lat: 0, Lng: 0},
				Score:       100,
				TargetIndex: 3,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, sampleResults()))

	want := `Auvo Nome,Recebida Nome,Latitude Auvo,Longitude Auvo,Localidade,Latitude Recebida,Longitude Recebida,Similaridade (%)
Posto Central,central posto,-23.5,-46.6,São Paulo,-23.52,-46.61,100
Loja A,,-23.501,-46.601,"São Paulo, Centro",,,
Null Island,null island,0,0,,0,0,100
`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVRoundTripsFieldCount(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, sampleResults()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for _, row := range rows {
		assert.Len(t, row, len(Header))
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultado.csv")

	require.NoError(t, WriteCSVFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(Header, ",")+"\n", string(data))

	err = WriteCSVFile(filepath.Join(t.TempDir(), "missing", "resultado.csv"), nil)
	assert.Error(t, err)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PrintTable(&buf, sampleResults()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3+3+1)

	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.Contains(t, lines[1], "Auvo Nome")
	assert.Contains(t, lines[3], "central posto")
	assert.Contains(t, lines[3], "100")
	assert.NotContains(t, lines[4], "100")
	assert.True(t, strings.HasPrefix(lines[6], "╰"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Posto", truncate("Posto", 5))
	assert.Equal(t, "Pos…", truncate("Posto", 4))
	assert.Equal(t, "Açaí…", truncate("Açaízeiro", 5))
}

func TestRollupByCell(t *testing.T) {
	cells, err := RollupByCell(sampleResults(), CellResolution)
	require.NoError(t, err)

	total := 0
	for _, c := range cells {
		total += c.Total
		assert.Equal(t, c.Total, c.Matched+c.Unmatched)
	}

	assert.Equal(t, 3, total)
	require.NotEmpty(t, cells)
	assert.Equal(t, 1, cells[0].Unmatched, "cells with unmatched records sort first")

	_, err = RollupByCell(sampleResults(), 16)
	assert.Error(t, err)
}

func setupTestStore(t *testing.T) (*sql.DB, Store) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.CreateSchema())

	return db, store
}

func TestStoreSaveAndListResults(t *testing.T) {
	db, store := setupTestStore(t)
	defer db.Close()

	results := sampleResults()
	run := &Run{
		Input:       "Mapa.csv",
		Config:      matcher.DefaultConfig(),
		SourceCount: 3,
		TargetCount: 4,
	}

	id, err := store.SaveRun(run, results)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)

	got, err := store.ListResults(id)
	require.NoError(t, err)

	if diff := cmp.Diff(results, got); diff != "" {
		t.Errorf("ListResults() mismatch (-want +got):\n%s", diff)
	}

	var cells int
	require.NoError(t, db.QueryRow("SELECT count(DISTINCT h3_res7) FROM results WHERE run_id = ?", id).Scan(&cells))
	assert.GreaterOrEqual(t, cells, 2)

	var source, matched string
	require.NoError(t, db.QueryRow(
		"SELECT source_point, matched_point FROM results WHERE run_id = ? AND position = 0", id,
	).Scan(&source, &matched))
	assert.Equal(t, "POINT(-46.6 -23.5)", source)
	assert.Equal(t, "POINT(-46.61 -23.52)", matched)
}

func TestStoreListRuns(t *testing.T) {
	db, store := setupTestStore(t)
	defer db.Close()

	first, err := store.SaveRun(&Run{Input: "a.csv", Config: matcher.DefaultConfig()}, nil)
	require.NoError(t, err)

	cfg := matcher.DefaultConfig()
	cfg.SimilarityThreshold = 90

	second, err := store.SaveRun(&Run{Input: "b.csv", Config: cfg, SourceCount: 1}, sampleResults()[:1])
	require.NoError(t, err)
	assert.Greater(t, second, first)

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "b.csv", runs[0].Input)
	assert.Equal(t, 90, runs[0].Config.SimilarityThreshold)
	assert.InDelta(t, 0.2, runs[0].Config.LatThreshold, 1e-12)
	assert.False(t, runs[0].CreatedAt.IsZero())

	empty, err := store.ListResults(first)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreCreateSchemaIsIdempotent(t *testing.T) {
	db, store := setupTestStore(t)
	defer db.Close()

	assert.NoError(t, store.CreateSchema())
}
