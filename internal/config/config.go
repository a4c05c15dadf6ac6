// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "context"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite database file; ":memory:" for ephemeral runs.
	DBPath string `koanf:"db_path"`

	// FeedBaseURL points at the football-data API root.
	FeedBaseURL string `koanf:"feed_base_url"`

	// FeedToken is sent as X-Auth-Token on every feed request. Required.
	FeedToken string `koanf:"feed_token"`

	// FeedTimeoutMS bounds one feed request.
	FeedTimeoutMS int `koanf:"feed_timeout_ms"`

	// Competition is the feed's competition code, e.g. "PL".
	Competition string `koanf:"competition"`

	// MinRound and MaxRound bound acceptable round numbers for the season.
	MinRound int `koanf:"min_round"`
	MaxRound int `koanf:"max_round"`

	// DefaultRoster seeds the player table on first start. Placeholder
	// names; operators rename players directly in the store.
	DefaultRoster []string `koanf:"default_roster"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":8080",
		DBPath:        "kickpool.db",
		FeedBaseURL:   "https://api.football-data.org/v4",
		FeedTimeoutMS: 15_000,
		Competition:   "PL",
		MinRound:      1,
		MaxRound:      38,
		DefaultRoster: []string{
			"Player One", "Player Two", "Player Three",
			"Player Four", "Player Five", "Player Six",
		},
		MaxLeaderboardLimit: 100,
	}
}
