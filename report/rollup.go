// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"cmp"
	"slices"

	"github.com/jcodagnone/concilia/matcher"
)

// CellSummary counts the results whose source point falls in one H3 cell.
type CellSummary struct {
	Cell      string  `json:"cell"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
}

// RollupByCell groups results by the H3 cell of their source point at
// resolution res. Cells with the most unmatched records come first.
func RollupByCell(results []matcher.Result, res int) ([]CellSummary, error) {
	byCell := make(map[string]*CellSummary)

	for _, r := range results {
		cell, err := r.SourcePoint.Cell(res)
		if err != nil {
			return nil, err
		}

		key := cell.String()

		summary, ok := byCell[key]
		if !ok {
			center, err := cell.LatLng()
			if err != nil {
				return nil, err
			}

			summary = &CellSummary{Cell: key, Lat: center.Lat, Lng: center.Lng}
			byCell[key] = summary
		}

		summary.Total++

		if r.Matched() {
			summary.Matched++
		} else {
			summary.Unmatched++
		}
	}

	cells := make([]CellSummary, 0, len(byCell))
	for _, s := range byCell {
		cells = append(cells, *s)
	}

	slices.SortFunc(cells, func(a, b CellSummary) int {
		return cmp.Or(
			cmp.Compare(b.Unmatched, a.Unmatched),
			cmp.Compare(b.Total, a.Total),
			cmp.Compare(a.Cell, b.Cell),
		)
	})

	return cells, nil
}
