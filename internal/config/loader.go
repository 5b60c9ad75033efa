package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "ARTHOUSE_"
	EnvConfig = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ARTHOUSE_CONFIG is set
//  3. env (prefix ARTHOUSE_)
//
// List values from env are comma-separated.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, path, err)
		}
	}

	// ARTHOUSE_MAX_PAGE_LIMIT -> max_page_limit (flat keys).
	envProvider := env.ProviderWithValue(EnvPrefix, ".", envValue)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	// Overridden lists replace the defaults instead of merging into them.
	for key, dst := range map[string]*[]string{
		"curated_titles":       &cfg.CuratedTitles,
		"priority_directors":   &cfg.PriorityDirectors,
		"cors_allowed_origins": &cfg.CORSAllowedOrigins,
	} {
		if k.Exists(key) {
			*dst = nil
		}
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are decoded from comma-separated env values.
var listKeys = map[string]bool{
	"curated_titles":       true,
	"priority_directors":   true,
	"cors_allowed_origins": true,
}

func envValue(name, value string) (string, any) {
	key := strings.TrimPrefix(strings.ToLower(name), strings.ToLower(EnvPrefix))
	if !listKeys[key] {
		return key, value
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}
