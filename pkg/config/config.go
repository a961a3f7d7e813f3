// Package config loads twfynz configuration from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Psopho/twfynz/pkg/normalize"
	"github.com/Psopho/twfynz/pkg/resolve"
	"github.com/Psopho/twfynz/pkg/slug"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "TWFYNZ_CONFIG"

// Config is the complete twfynz configuration.
type Config struct {
	// Corrections are the known misspellings rewritten by the last rung of
	// the bill-name ladder.
	Corrections []normalize.Correction `yaml:"corrections" json:"corrections"`

	Resolve ResolveConfig `yaml:"resolve" json:"resolve"`
	Slug    SlugConfig    `yaml:"slug" json:"slug"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// ResolveConfig configures bill resolution.
type ResolveConfig struct {
	// YearLookback is how many years a plain-name search steps back.
	YearLookback int `yaml:"year_lookback" json:"year_lookback"`
}

// SlugConfig configures bill slug length.
type SlugConfig struct {
	MaxLength    int `yaml:"max_length" json:"max_length"`
	SuffixBudget int `yaml:"suffix_budget" json:"suffix_budget"`
}

// CacheConfig configures page-cache expiry.
type CacheConfig struct {
	// Root is the cache directory. Empty disables file expiry.
	Root string `yaml:"root" json:"root"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is text or json.
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Corrections: append([]normalize.Correction(nil), normalize.DefaultCorrections...),
		Resolve:     ResolveConfig{YearLookback: resolve.DefaultYearLookback},
		Slug:        SlugConfig{MaxLength: slug.DefaultMaxLength, SuffixBudget: slug.DefaultSuffixBudget},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the libraries cannot use.
func (c *Config) Validate() error {
	if c.Slug.SuffixBudget <= 0 {
		return fmt.Errorf("slug.suffix_budget must be positive, got %d", c.Slug.SuffixBudget)
	}
	if c.Slug.MaxLength <= c.Slug.SuffixBudget {
		return fmt.Errorf("slug.max_length (%d) must exceed slug.suffix_budget (%d)", c.Slug.MaxLength, c.Slug.SuffixBudget)
	}
	if c.Resolve.YearLookback < 0 {
		return fmt.Errorf("resolve.year_lookback must not be negative, got %d", c.Resolve.YearLookback)
	}
	for i, correction := range c.Corrections {
		if correction.From == "" {
			return fmt.Errorf("corrections[%d]: from is required", i)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Ladder returns the bill-name ladder with the configured corrections.
func (c *Config) Ladder() []normalize.Rung {
	return normalize.Ladder(c.Corrections)
}

// SlugGenerator returns a generator with the configured length budget.
func (c *Config) SlugGenerator() *slug.Generator {
	return &slug.Generator{MaxLength: c.Slug.MaxLength, SuffixBudget: c.Slug.SuffixBudget}
}

// Logger builds a logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", level)
	}
}
