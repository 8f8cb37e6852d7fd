// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/concilia/config"
	"github.com/jcodagnone/concilia/report"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	Output string
	DbPath string
	Quiet  bool
}

var matchOpts = &matchOptions{}

var matchCmd = &cobra.Command{
	Use:   "match <arquivo.csv>",
	Short: "Compara as bases e grava o relatório de correspondências",
	Long: `Lê um arquivo com as colunas Latitude,Longitude,Base,Nome,Localidade e,
para cada ponto da base de origem, procura o ponto da base recebida com o nome
mais parecido dentro da janela de latitude e longitude.

$ concilia match Mapa.csv -o resultado.csv --similarity-threshold 80
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rec, err := reconcile(args[0], cfg)
		if err != nil {
			return err
		}

		if !matchOpts.Quiet {
			if err := report.PrintTable(os.Stdout, rec.results); err != nil {
				return fmt.Errorf("printing results: %w", err)
			}
		}

		if err := report.WriteCSVFile(matchOpts.Output, rec.results); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		log.Printf("✅ Report written to %s", matchOpts.Output)

		if matchOpts.DbPath != "" {
			runID, err := saveRun(matchOpts.DbPath, rec)
			if err != nil {
				return err
			}

			log.Printf("✅ Run %d stored in %s", runID, matchOpts.DbPath)
		}

		return nil
	},
}

func saveRun(dbPath string, rec *reconciliation) (int64, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := report.NewStore(db)
	if err := store.CreateSchema(); err != nil {
		return 0, err
	}

	runID, err := store.SaveRun(&report.Run{
		Input:       rec.input,
		Config:      rec.cfg.Matcher,
		SourceCount: len(rec.partition.Source),
		TargetCount: len(rec.partition.Target),
	}, rec.results)
	if err != nil {
		return 0, fmt.Errorf("storing run: %w", err)
	}

	return runID, nil
}

func init() {
	rootCmd.AddCommand(matchCmd)
	config.RegisterFlags(matchCmd.Flags())
	matchCmd.Flags().StringVarP(
		&matchOpts.Output,
		"output",
		"o",
		"resultado.csv",
		"Arquivo CSV de saída",
	)
	matchCmd.Flags().StringVar(
		&matchOpts.DbPath,
		"db",
		"",
		"Arquivo DuckDB onde registrar a execução (opcional)",
	)
	matchCmd.Flags().BoolVarP(
		&matchOpts.Quiet,
		"quiet",
		"q",
		false,
		"Não imprime a tabela de resultados",
	)
}
