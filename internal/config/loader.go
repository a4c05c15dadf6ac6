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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if POOL_CONFIG is set
//  3. env (prefix POOL_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("POOL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: POOL_ADDR, POOL_FEED_TOKEN, ...
	// Map env keys like POOL_DB_PATH -> db_path (flat keys, underscores
	// preserved to match koanf tags on the struct).
	envProvider := env.Provider("POOL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pool_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.MinRound < 1 || cfg.MaxRound < cfg.MinRound:
		return nil, fmt.Errorf("%w: round bounds %d..%d", ErrInvalidConfig, cfg.MinRound, cfg.MaxRound)
	case len(cfg.DefaultRoster) == 0:
		return nil, fmt.Errorf("%w: default roster must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
