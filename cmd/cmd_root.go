// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var configFile string

var rootCmd = &cobra.Command{
	Use:   "concilia",
	Short: "conciliação de listas de pontos geolocalizados",
	Long: `
concilia compara a lista de pontos do Auvo com uma base recebida e, para cada
ponto do Auvo, procura o ponto recebido mais parecido dentro de uma janela de
latitude e longitude, produzindo um relatório de correspondências.
`,
	SilenceUsage: true,
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config",
		"",
		"Arquivo de configuração (padrão: ./concilia.yaml, se existir)",
	)
}
