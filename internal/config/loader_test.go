package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/tomvoss/kickpool/internal/config"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "kickpool-config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp config: %v", err)
	}
	return f.Name()
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"POOL_CONFIG",
		"POOL_LOG_LEVEL",
		"POOL_ADDR",
		"POOL_DB_PATH",
		"POOL_FEED_BASE_URL",
		"POOL_FEED_TOKEN",
		"POOL_FEED_TIMEOUT_MS",
		"POOL_COMPETITION",
		"POOL_MIN_ROUND",
		"POOL_MAX_ROUND",
		"POOL_MAX_LEADERBOARD_LIMIT",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBPath, convey.ShouldEqual, "kickpool.db")
				convey.So(cfg.Competition, convey.ShouldEqual, "PL")
				convey.So(cfg.MinRound, convey.ShouldEqual, 1)
				convey.So(cfg.MaxRound, convey.ShouldEqual, 38)
				convey.So(len(cfg.DefaultRoster), convey.ShouldEqual, 6)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("POOL_ADDR", ":9090")
			_ = os.Setenv("POOL_COMPETITION", "BL1")
			_ = os.Setenv("POOL_FEED_TOKEN", "secret")
			_ = os.Setenv("POOL_MAX_ROUND", "34")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Competition, convey.ShouldEqual, "BL1")
				convey.So(cfg.FeedToken, convey.ShouldEqual, "secret")
				convey.So(cfg.MaxRound, convey.ShouldEqual, 34)
				convey.So(cfg.MinRound, convey.ShouldEqual, 1) // default kept
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":7070"
competition: "PD"
max_round: 38
default_roster:
  - "Alice"
  - "Bob"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("POOL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Competition, convey.ShouldEqual, "PD")
				convey.So(cfg.DefaultRoster, convey.ShouldResemble, []string{"Alice", "Bob"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
competition: "PD"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("POOL_CONFIG", tmpFile)
			_ = os.Setenv("POOL_ADDR", ":6060") // should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")     // overridden by env
				convey.So(cfg.Competition, convey.ShouldEqual, "PD") // from file
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("POOL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the addr is emptied", func() {
			_ = os.Setenv("POOL_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the round bounds are inverted", func() {
			_ = os.Setenv("POOL_MIN_ROUND", "20")
			_ = os.Setenv("POOL_MAX_ROUND", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
