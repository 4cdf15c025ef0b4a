// Package config reads the tool's defaults from the environment. Command
// line flags override every value.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"trace-mapper/internal/tlc"
)

// Config holds environment defaults.
type Config struct {
	LogLevel  string `env:"TRACE_MAPPER_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TRACE_MAPPER_LOG_FORMAT" envDefault:"console"`
	// Validate enables input_schema and output_schema checks.
	Validate bool `env:"TRACE_MAPPER_VALIDATE"`
	// Workers is the number of goroutines mapping events. 1 maps
	// sequentially.
	Workers int `env:"TRACE_MAPPER_WORKERS" envDefault:"1"`
	// SchemaDefinitions lists shared JSON Schema documents referenced by
	// mapping schemas.
	SchemaDefinitions []string `env:"TRACE_MAPPER_SCHEMA_DEFINITIONS" envSeparator:","`
	SchemaBaseURI     string   `env:"TRACE_MAPPER_SCHEMA_BASE_URI" envDefault:"https://trace-mapper.local/schemas/"`
	// OutDir receives the pipeline's intermediate and final traces.
	OutDir string `env:"TRACE_MAPPER_OUT_DIR" envDefault:"."`

	TLC tlc.Config
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("parse env: TRACE_MAPPER_WORKERS must be at least 1, got %d", cfg.Workers)
	}

	return cfg, nil
}
