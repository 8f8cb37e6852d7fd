// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/concilia/similarity"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var debugFoldAccents bool

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugSimilarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Calcula a similaridade entre pares de nomes",
	Long: `Lê um par de nomes por linha, separados por TAB ou '|', e imprime os nomes
normalizados seguidos da similaridade.

$ echo 'Posto Central|central posto' | concilia debug similarity
posto central	posto central	100
	`,
	RunE: func(_ *cobra.Command, _ []string) error {
		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Digite dois nomes por linha, separados por TAB ou '|'…")
		}

		if err := scorePairs(input, os.Stdout, debugFoldAccents); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

// scorePairs writes, for each "a<TAB>b" or "a|b" line of r, the sorted
// tokens of both names and their score. Lines without a separator are
// echoed back with an error marker.
func scorePairs(r io.Reader, w io.Writer, fold bool) error {
	score := similarity.NewTokenSortScorer(fold)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		a, b, ok := strings.Cut(line, "\t")
		if !ok {
			a, b, ok = strings.Cut(line, "|")
		}

		if !ok {
			fmt.Fprintf(w, "%s\t%q\n", line, "expected two names")

			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%d\n",
			similarity.TokenSort(a, fold),
			similarity.TokenSort(b, fold),
			score(a, b))
	}

	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugSimilarityCmd)
	debugSimilarityCmd.Flags().BoolVar(
		&debugFoldAccents,
		"fold-accents",
		false,
		"Remove acentos antes de comparar nomes",
	)
}
