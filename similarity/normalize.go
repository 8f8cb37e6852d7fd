// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package similarity

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// Process prepares a name for scoring. Accents are folded when fold is set;
// any rune still outside ASCII is dropped, everything that is not a letter,
// digit or underscore becomes a space, and the result is lowercased and trimmed.
//
// Without folding "São Paulo" becomes "so paulo", with it "sao paulo".
func Process(s string, fold bool) string {
	if fold {
		s = LowerASCIIFolding(s)
	}

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(b.String())
}

// TokenSort processes s and returns its whitespace tokens sorted and joined by
// a single space, so that "Silva Maria" and "maria  SILVA" both yield "maria silva".
func TokenSort(s string, fold bool) string {
	tokens := strings.Fields(Process(s, fold))
	slices.Sort(tokens)

	return strings.Join(tokens, " ")
}
