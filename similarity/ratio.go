// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

// Package similarity scores how alike two names are on a 0-100 scale.
package similarity

import (
	"math"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// indelParams weighs a substitution as a deletion plus an insertion, so the
// distance counts the characters outside the longest common subsequence.
var indelParams = levenshtein.NewParams().SubCost(2)

// Scorer returns the similarity of two names as an integer between 0 and 100.
type Scorer func(a, b string) int

// Ratio returns the normalized indel similarity of a and b as a percentage.
// The similarity is scaled by 100 only after dividing, then rounded half to
// even, so 46/80 gives 57 and not 58. Identical strings score 100, even when empty.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}

	lensum := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if utf8.RuneCountInString(a) == 0 || utf8.RuneCountInString(b) == 0 {
		return 0
	}

	dist := levenshtein.Distance(a, b, indelParams)

	return int(math.RoundToEven(100 * (float64(lensum-dist) / float64(lensum))))
}

// TokenSortRatio compares two names regardless of case, punctuation and the
// order of their words. Accented letters are dropped, not folded.
func TokenSortRatio(a, b string) int {
	return Ratio(TokenSort(a, false), TokenSort(b, false))
}

// NewTokenSortScorer returns a token sort Scorer. With fold set, accents are
// folded first so that "José" scores 100 against "Jose" instead of 86.
func NewTokenSortScorer(fold bool) Scorer {
	return func(a, b string) int {
		return Ratio(TokenSort(a, fold), TokenSort(b, fold))
	}
}
