// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

// Package records loads geolocated name lists and partitions them by base.
package records

import (
	"github.com/jcodagnone/concilia/spatial"
)

const (
	// DefaultSourceGroup is the Base value of the authoritative list.
	DefaultSourceGroup = "Auvo"
	// DefaultTargetGroup is the Base value of the received list.
	DefaultTargetGroup = "Base Recebida"
)

// GeoRecord is a named, located entity read from one input row.
type GeoRecord struct {
	Name     string        `json:"name"`
	Point    spatial.Point `json:"point"`
	Locality string        `json:"locality"`
	Group    string        `json:"group"`
	Line     int           `json:"line"` // 1-based line in the input file
}

// RejectReason tells why an input row never became a GeoRecord.
type RejectReason int

const (
	// RejectUnparsable the line is not valid CSV.
	RejectUnparsable RejectReason = iota
	// RejectFieldCount the row does not have exactly five fields.
	RejectFieldCount
	// RejectLatitude the latitude is not a finite number.
	RejectLatitude
	// RejectLongitude the longitude is not a finite number.
	RejectLongitude
)

func (r RejectReason) String() string {
	switch r {
	case RejectUnparsable:
		return "unparsable"
	case RejectFieldCount:
		return "field count"
	case RejectLatitude:
		return "invalid latitude"
	case RejectLongitude:
		return "invalid longitude"
	default:
		return "unknown"
	}
}

// Rejection describes an excluded input row.
type Rejection struct {
	Line   int
	Reason RejectReason
	Fields []string
}

// Partition holds the two groups being reconciled, each in file order.
type Partition struct {
	Source []GeoRecord
	Target []GeoRecord
	Other  int // records whose Base matched neither group
}
