package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/leengari/csvindex/internal/engine"
	"github.com/leengari/csvindex/internal/hierarchy"
	"github.com/leengari/csvindex/internal/logging"
)

// Environment variables that override file settings
const (
	EnvLogLevel = "CSVINDEX_LOG_LEVEL"
	EnvSeqURL   = "CSVINDEX_SEQ_URL"
)

// Config holds all csvindex configuration.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	CSV       CSVConfig       `yaml:"csv"`
	Hierarchy HierarchyConfig `yaml:"hierarchy"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IndexConfig configures the index column.
type IndexConfig struct {
	Column     string `yaml:"column"`
	Start      int    `yaml:"start"`
	OnConflict string `yaml:"on_conflict"` // replace, error, suffix
}

// CSVConfig configures the CSV dialect.
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"` // single character
}

// HierarchyConfig configures the hierarchy export.
type HierarchyConfig struct {
	RootName          string   `yaml:"root_name"`
	GroupColumn       string   `yaml:"group_column"`
	GroupDetailColumn string   `yaml:"group_detail_column"`
	LeafColumn        string   `yaml:"leaf_column"`
	Attributes        []string `yaml:"attributes"`
	LabeledAttributes []string `yaml:"labeled_attributes"`
	LeafValue         int      `yaml:"leaf_value"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`   // debug, info, warn, error (case-insensitive)
	SeqURL string `yaml:"seq_url"` // optional Seq ingestion endpoint
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	idx := engine.DefaultIndexOptions()
	spec := hierarchy.DefaultSpec()

	return &Config{
		Index: IndexConfig{
			Column:     idx.Column,
			Start:      idx.Start,
			OnConflict: string(idx.OnConflict),
		},
		CSV: CSVConfig{
			Delimiter: ",",
		},
		Hierarchy: HierarchyConfig{
			RootName:          spec.RootName,
			GroupColumn:       spec.GroupColumn,
			GroupDetailColumn: spec.GroupDetailColumn,
			LeafColumn:        spec.LeafColumn,
			Attributes:        spec.Attributes,
			LabeledAttributes: spec.LabeledAttributes,
			LeafValue:         spec.LeafValue,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvSeqURL); v != "" {
		c.Logging.SeqURL = v
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Index.Column == "" {
		return fmt.Errorf("index.column must not be empty")
	}
	if _, err := engine.ParseConflictPolicy(c.Index.OnConflict); err != nil {
		return fmt.Errorf("index.on_conflict: %w", err)
	}
	if _, err := c.Comma(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Comma returns the delimiter as a rune.
func (c *Config) Comma() (rune, error) {
	d := c.CSV.Delimiter
	if d == "" {
		return ',', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("csv.delimiter must be a single character, got %q", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("csv.delimiter %q is not allowed", d)
	}
	return r, nil
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions() (engine.Options, error) {
	policy, err := engine.ParseConflictPolicy(c.Index.OnConflict)
	if err != nil {
		return engine.Options{}, err
	}
	comma, err := c.Comma()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Index: engine.IndexOptions{
			Column:     c.Index.Column,
			Start:      c.Index.Start,
			OnConflict: policy,
		},
		Comma: comma,
	}, nil
}

// HierarchySpec converts the hierarchy section into a hierarchy.Spec.
func (c *Config) HierarchySpec() hierarchy.Spec {
	h := c.Hierarchy
	return hierarchy.Spec{
		RootName:          h.RootName,
		GroupColumn:       h.GroupColumn,
		GroupDetailColumn: h.GroupDetailColumn,
		LeafColumn:        h.LeafColumn,
		Attributes:        h.Attributes,
		LabeledAttributes: h.LabeledAttributes,
		LeafValue:         h.LeafValue,
	}
}
