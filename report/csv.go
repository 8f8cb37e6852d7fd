// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders match results as CSV, console tables and a DuckDB audit log.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jcodagnone/concilia/matcher"
)

// Header is the first row of the result CSV.
var Header = []string{
	"Auvo Nome",
	"Recebida Nome",
	"Latitude Auvo",
	"Longitude Auvo",
	"Localidade",
	"Latitude Recebida",
	"Longitude Recebida",
	"Similaridade (%)",
}

// Row returns the CSV fields of r. Fields of a missing match are empty.
func Row(r matcher.Result) []string {
	row := []string{
		r.SourceName,
		"",
		formatFloat(r.SourcePoint.Lat),
		formatFloat(r.SourcePoint.Lng),
		r.SourceLocality,
		"",
		"",
		"",
	}

	if m := r.Match; m != nil {
		row[1] = m.Name
		row[5] = formatFloat(m.Point.Lat)
		row[6] = formatFloat(m.Point.Lng)
		row[7] = strconv.Itoa(m.Score)
	}

	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the header and one row per result.
func WriteCSV(w io.Writer, results []matcher.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range results {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("writing result %d: %w", i, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteCSVFile writes the results to path, replacing any existing file.
func WriteCSVFile(path string, results []matcher.Result) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return WriteCSV(f, results)
}
