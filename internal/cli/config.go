package cli

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds settings read from the environment. Command-line flags
// override every field.
type Config struct {
	Format   string `env:"QSREPLAY_FORMAT" envDefault:"text"`
	Backend  string `env:"QSREPLAY_BACKEND"`
	LogLevel string `env:"QSREPLAY_LOG_LEVEL"`
	Verbose  bool   `env:"QSREPLAY_VERBOSE"`
}

// LoadConfig parses Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// logLevel resolves the level for library logging. The second result is
// false when logging stays disabled.
func (c Config) logLevel() (slog.Level, bool, error) {
	if c.LogLevel == "" {
		if c.Verbose {
			return slog.LevelDebug, true, nil
		}
		return 0, false, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, false, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, true, nil
}
