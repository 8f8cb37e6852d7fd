// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is matched by every PreconditionError.
	ErrPrecondition = errors.New("matcher: invalid input record")
	// ErrInvalidConfig reports out of range thresholds.
	ErrInvalidConfig = errors.New("matcher: invalid configuration")
)

// Input identifies which of the two record sets a record came from.
type Input string

const (
	InputSource Input = "source"
	InputTarget Input = "target"
)

// PreconditionError reports a record that should never have reached the
// matcher: the caller is expected to filter these out while loading.
type PreconditionError struct {
	Input  Input
	Index  int // position within its input
	Line   int // input file line, 0 when unknown
	Field  string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s record %d (line %d): %s %s", e.Input, e.Index, e.Line, e.Field, e.Reason)
	}

	return fmt.Sprintf("%s record %d: %s %s", e.Input, e.Index, e.Field, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// IsPreconditionError reports whether err was caused by an invalid input record.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError

	return errors.As(err, &pe)
}
