// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jcodagnone/concilia/matcher"
)

const maxColumnWidth = 40

// PrintTable draws the source name, matched name and score of every result.
func PrintTable(w io.Writer, results []matcher.Result) error {
	nameW, matchW, scoreW := len("Auvo Nome"), len("Recebida Nome"), len("Similaridade (%)")

	for _, r := range results {
		nameW = max(nameW, min(maxColumnWidth, utf8.RuneCountInString(r.SourceName)))
		if r.Match != nil {
			matchW = max(matchW, min(maxColumnWidth, utf8.RuneCountInString(r.Match.Name)))
		}
	}

	a, b, c := strings.Repeat("─", nameW), strings.Repeat("─", matchW), strings.Repeat("─", scoreW)

	lines := []string{
		fmt.Sprintf("╭─%s─┬─%s─┬─%s─╮", a, b, c),
		fmt.Sprintf("│ %-*s │ %-*s │ %*s │", nameW, "Auvo Nome", matchW, "Recebida Nome", scoreW, "Similaridade (%)"),
		fmt.Sprintf("├─%s─┼─%s─┼─%s─┤", a, b, c),
	}

	for _, r := range results {
		matched, score := "", ""
		if r.Match != nil {
			matched, score = r.Match.Name, strconv.Itoa(r.Match.Score)
		}

		lines = append(lines, fmt.Sprintf("│ %-*s │ %-*s │ %*s │",
			nameW, truncate(r.SourceName, nameW),
			matchW, truncate(matched, matchW),
			scoreW, score))
	}

	lines = append(lines, fmt.Sprintf("╰─%s─┴─%s─┴─%s─╯", a, b, c))

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	return nil
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}

	runes := []rune(s)

	return string(runes[:width-1]) + "…"
}
