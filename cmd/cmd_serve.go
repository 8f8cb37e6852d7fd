// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/jcodagnone/concilia/config"
	"github.com/jcodagnone/concilia/review"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <arquivo.csv>",
	Short: "Executa a comparação e publica os resultados numa API HTTP",
	Long: `Executa a mesma comparação do comando match e serve os resultados para
revisão em /api/summary, /api/results e /api/cells.

$ concilia serve Mapa.csv --addr localhost:8080
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

		srv := review.NewServer(rec.input, cfg.Matcher, rec.results)
		log.Printf("🚀 Serving results on http://%s/api/summary", serveAddr)

		return srv.Run(serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	config.RegisterFlags(serveCmd.Flags())
	serveCmd.Flags().StringVar(
		&serveAddr,
		"addr",
		"localhost:8080",
		"Endereço onde escutar",
	)
}
