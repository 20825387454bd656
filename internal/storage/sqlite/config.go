package sqlite

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config locates the database.
type Config struct {
	Path string `env:"BINGO_DB_PATH" envDefault:"data/bingo.db"`
}

// ConfigFromEnv loads the storage configuration from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
