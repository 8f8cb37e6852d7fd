// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jcodagnone/concilia/spatial"
)

// Column positions of the Latitude,Longitude,Base,Nome,Localidade layout.
const (
	colLatitude = iota
	colLongitude
	colBase
	colName
	colLocality
	numColumns
)

// Dataset is the clean result of loading an input file.
type Dataset struct {
	Records  []GeoRecord
	Rejected []Rejection
}

// LoadFile reads and parses the input file at path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	ds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return ds, nil
}

// Load parses rows of Latitude,Longitude,Base,Nome,Localidade. No header is
// expected: a header row is rejected like any row whose coordinates are not
// numeric. Rejected rows are reported, never returned as records.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	ds := &Dataset{}

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("reading csv: %w", err)
			}

			ds.Rejected = append(ds.Rejected, Rejection{Line: parseErr.StartLine, Reason: RejectUnparsable})

			continue
		}

		line, _ := reader.FieldPos(0)

		if line == 1 {
			fields[0] = strings.TrimPrefix(fields[0], "\ufeff")
		}

		rec, reason, ok := parseRow(fields)
		if !ok {
			ds.Rejected = append(ds.Rejected, Rejection{Line: line, Reason: reason, Fields: fields})

			continue
		}

		rec.Line = line
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func parseRow(fields []string) (GeoRecord, RejectReason, bool) {
	if len(fields) != numColumns {
		return GeoRecord{}, RejectFieldCount, false
	}

	lat, ok := parseCoordinate(fields[colLatitude])
	if !ok {
		return GeoRecord{}, RejectLatitude, false
	}

	lng, ok := parseCoordinate(fields[colLongitude])
	if !ok {
		return GeoRecord{}, RejectLongitude, false
	}

	return GeoRecord{
		Name:     strings.TrimSpace(fields[colName]),
		Point:    spatial.Point{Lat: lat, Lng: lng},
		Locality: strings.TrimSpace(fields[colLocality]),
		Group:    fields[colBase],
	}, 0, true
}

// parseCoordinate accepts any finite decimal number. NaN and infinities are
// treated as missing.
func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// Partition splits the records by their Base value, preserving file order.
// Base is compared exactly as read: "Auvo " belongs to neither default group.
func (d *Dataset) Partition(sourceGroup, targetGroup string) Partition {
	var p Partition

	for _, rec := range d.Records {
		switch rec.Group {
		case sourceGroup:
			p.Source = append(p.Source, rec)
		case targetGroup:
			p.Target = append(p.Target, rec)
		default:
			p.Other++
		}
	}

	return p
}

// RejectedBy counts the rejections per reason.
func (d *Dataset) RejectedBy() map[RejectReason]int {
	counts := make(map[RejectReason]int)
	for _, r := range d.Rejected {
		counts[r.Reason]++
	}

	return counts
}
