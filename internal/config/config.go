// Package config loads the command line tool configuration from YAML files
// and FRACTIONATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FRACTIONATE_"

// Config holds all configuration for the command line tool.
type Config struct {
	Corpus CorpusConfig `yaml:"corpus"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
}

// CorpusConfig controls segmentation.
type CorpusConfig struct {
	SplitSentences    bool    `yaml:"split_sentences"`
	SplitParagraphs   bool    `yaml:"split_paragraphs"`
	RemoveHTMLTags    bool    `yaml:"remove_html_tags"`
	ClassifyItems     bool    `yaml:"classify_items"`
	VerticalThreshold float64 `yaml:"vertical_threshold"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// StoreConfig holds corpus database settings. An empty path disables the
// store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			SplitSentences:    true,
			SplitParagraphs:   true,
			RemoveHTMLTags:    true,
			ClassifyItems:     true,
			VerticalThreshold: 5.0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file, when path is not empty, and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Corpus.VerticalThreshold < 0 {
		return fmt.Errorf("vertical_threshold must not be negative: %g", c.Corpus.VerticalThreshold)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) error {
	bools := []struct {
		key string
		dst *bool
	}{
		{"SPLIT_SENTENCES", &cfg.Corpus.SplitSentences},
		{"SPLIT_PARAGRAPHS", &cfg.Corpus.SplitParagraphs},
		{"REMOVE_HTML_TAGS", &cfg.Corpus.RemoveHTMLTags},
		{"CLASSIFY_ITEMS", &cfg.Corpus.ClassifyItems},
	}
	for _, b := range bools {
		v, ok := lookupEnv(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.key, err)
		}
		*b.dst = parsed
	}

	if v, ok := lookupEnv("VERTICAL_THRESHOLD"); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sVERTICAL_THRESHOLD: %w", EnvPrefix, err)
		}
		cfg.Corpus.VerticalThreshold = parsed
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"STORE_PATH", &cfg.Store.Path},
	}
	for _, s := range strs {
		if v, ok := lookupEnv(s.key); ok {
			*s.dst = v
		}
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
