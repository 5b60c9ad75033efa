// Package config defines service configuration and loading.
//
// Values are layered: defaults from New, then an optional YAML file named by
// ARTHOUSE_CONFIG, then ARTHOUSE_* environment variables.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/arthouse/internal/domain/ranking"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// DataDir is the badger directory. Empty keeps the catalog in memory only.
	DataDir string `koanf:"data_dir"`

	// DefaultPageLimit is used when a listing omits limit.
	DefaultPageLimit int `koanf:"default_page_limit"`

	// MaxPageLimit caps GET /api/movies?limit.
	MaxPageLimit int `koanf:"max_page_limit"`

	// HighTierThreshold and ReservedHead shape shuffle mode.
	HighTierThreshold int `koanf:"high_tier_threshold"`
	ReservedHead      int `koanf:"reserved_head"`

	// CuratedTitles is the editorial list that leads curated mode.
	CuratedTitles []string `koanf:"curated_titles"`

	// PriorityDirectors lead GET /api/directors in list order.
	PriorityDirectors []string `koanf:"priority_directors"`

	// SignificantDelta flags recompute changes strictly larger than this.
	SignificantDelta int `koanf:"significant_delta"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the recompute queue.
	QueueSize int `koanf:"queue_size"`

	// CORSAllowedOrigins lists the frontend origins.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindowSec per client IP. Zero disables.
	RateLimitRequests  int `koanf:"rate_limit_requests"`
	RateLimitWindowSec int `koanf:"rate_limit_window_sec"`

	// RedocBundlePath is a local redoc.standalone.js served with the docs.
	// Empty loads ReDoc from its CDN.
	RedocBundlePath string `koanf:"redoc_bundle_path"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":5000",
		DefaultPageLimit:   100,
		MaxPageLimit:       1000,
		HighTierThreshold:  ranking.DefaultHighTierThreshold,
		ReservedHead:       ranking.DefaultReservedHead,
		CuratedTitles:      ranking.DefaultCuratedTitles(),
		PriorityDirectors:  ranking.DefaultPriorityDirectors(),
		SignificantDelta:   10,
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          10_000,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		RateLimitRequests:  300,
		RateLimitWindowSec: 60,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.DefaultPageLimit < 1:
		return fmt.Errorf("%w: default_page_limit must be >= 1", ErrInvalidConfig)
	case c.MaxPageLimit < c.DefaultPageLimit:
		return fmt.Errorf("%w: max_page_limit must be >= default_page_limit", ErrInvalidConfig)
	case c.HighTierThreshold < 0 || c.HighTierThreshold > 100:
		return fmt.Errorf("%w: high_tier_threshold must be within [0, 100]", ErrInvalidConfig)
	case c.ReservedHead < 0:
		return fmt.Errorf("%w: reserved_head must be >= 0", ErrInvalidConfig)
	case c.SignificantDelta < 0:
		return fmt.Errorf("%w: significant_delta must be >= 0", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be >= 1", ErrInvalidConfig)
	case c.RateLimitRequests < 0 || c.RateLimitWindowSec < 0:
		return fmt.Errorf("%w: rate limits must not be negative", ErrInvalidConfig)
	}
	return nil
}
