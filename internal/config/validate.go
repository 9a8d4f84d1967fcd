package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	outputFormats = []string{"json", "yaml"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Source.JMdictPath == "" {
		return fmt.Errorf("source.jmdict_path must not be empty")
	}
	if c.Source.KanjiDictPath == "" {
		return fmt.Errorf("source.kanji_dict_path must not be empty")
	}

	if c.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %v (got %q)", outputFormats, c.Output.Format)
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.BatchSize <= 0 || d.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be in [1, %d] (got %d)", MaxBatchSize, d.BatchSize)
	}
	if !d.Enabled() {
		return nil
	}
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be in [0, max_conns] (got %d)", d.MinConns)
	}
	return nil
}
