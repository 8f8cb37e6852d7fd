// Copyright 2025 The Concilia Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"
	"math"
	"strconv"

	"github.com/uber/h3-go/v4"
)

const earthRadius = 6371e3 // meters

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns the WKT form of the Point, POINT(lng lat), with the shortest
// coordinates that parse back to the same values.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
		strconv.FormatFloat(p.Lat, 'f', -1, 64))
}

// Scan implements the sql.Scanner interface, reading the String form back.
func (p *Point) Scan(value interface{}) error {
	if value == nil {
		p.Lat, p.Lng = 0, 0

		return nil
	}

	switch v := value.(type) {
	case []byte:
		return p.scanText(string(v))
	case string:
		return p.scanText(v)
	default:
		return fmt.Errorf("spatial: unsupported type for Point scan: %T", value)
	}
}

// scanText accepts both "POINT(lng lat)" and DuckDB's "POINT (lng lat)".
func (p *Point) scanText(s string) error {
	if _, err := fmt.Sscanf(s, "POINT(%f %f)", &p.Lng, &p.Lat); err == nil {
		return nil
	}

	_, err := fmt.Sscanf(s, "POINT (%f %f)", &p.Lng, &p.Lat)

	return err
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// Delta returns the absolute per-axis differences, in degrees, between p and other.
func (p Point) Delta(other Point) (latDiff, lngDiff float64) {
	return math.Abs(p.Lat - other.Lat), math.Abs(p.Lng - other.Lng)
}

// WithinBox reports whether other lies inside the box centered on p whose half
// sides are latTol and lngTol degrees. Bounds are inclusive and each axis is
// tested independently; this is not a distance radius.
func (p Point) WithinBox(other Point, latTol, lngTol float64) bool {
	latDiff, lngDiff := p.Delta(other)

	return latDiff <= latTol && lngDiff <= lngTol
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Cell returns the H3 cell containing p at the given resolution (0-15).
func (p Point) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("spatial: h3 cell at res %d: %w", res, err)
	}

	return cell, nil
}
