// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves the run configuration from flags, environment and
// an optional concilia.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcodagnone/concilia/matcher"
	"github.com/jcodagnone/concilia/records"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys double as flag names; environment variables use the CONCILIA_ prefix
// with dashes replaced by underscores (CONCILIA_LAT_THRESHOLD).
const (
	KeyLatThreshold        = "lat-threshold"
	KeyLonThreshold        = "lon-threshold"
	KeySimilarityThreshold = "similarity-threshold"
	KeyWorkers             = "workers"
	KeyFoldAccents         = "fold-accents"
	KeySourceBase          = "source-base"
	KeyTargetBase          = "target-base"
)

// Config is the resolved configuration of a match run.
type Config struct {
	Matcher     matcher.Config
	FoldAccents bool
	SourceBase  string
	TargetBase  string
}

// RegisterFlags adds the matching flags, with their defaults, to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	def := matcher.DefaultConfig()

	flags.Float64(KeyLatThreshold, def.LatThreshold, "Diferença máxima de latitude, em graus")
	flags.Float64(KeyLonThreshold, def.LonThreshold, "Diferença máxima de longitude, em graus")
	flags.Int(KeySimilarityThreshold, def.SimilarityThreshold, "Similaridade mínima dos nomes (0-100)")
	flags.Int(KeyWorkers, def.Workers, "Número de goroutines para comparar registros")
	flags.Bool(KeyFoldAccents, false, "Remove acentos antes de comparar nomes")
	flags.String(KeySourceBase, records.DefaultSourceGroup, "Valor da coluna Base da lista de origem")
	flags.String(KeyTargetBase, records.DefaultTargetGroup, "Valor da coluna Base da lista recebida")
}

// Load merges, from lowest to highest precedence, the flag defaults, the
// config file, CONCILIA_* environment variables and explicitly set flags.
// When configFile is empty, concilia.yaml is looked up in the working
// directory and silently skipped if missing.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("concilia")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CONCILIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Matcher: matcher.Config{
			LatThreshold:        v.GetFloat64(KeyLatThreshold),
			LonThreshold:        v.GetFloat64(KeyLonThreshold),
			SimilarityThreshold: v.GetInt(KeySimilarityThreshold),
			Workers:             v.GetInt(KeyWorkers),
		},
		FoldAccents: v.GetBool(KeyFoldAccents),
		SourceBase:  v.GetString(KeySourceBase),
		TargetBase:  v.GetString(KeyTargetBase),
	}

	if err := cfg.Matcher.Validate(); err != nil {
		return nil, err
	}

	if cfg.SourceBase == cfg.TargetBase {
		return nil, fmt.Errorf("source and target base must differ (both %q)", cfg.SourceBase)
	}

	return cfg, nil
}
