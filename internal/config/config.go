package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the process needs at startup. The intervals have
// no defaults on purpose: running with an unintended cadence is worse than
// refusing to start.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	ChannelID    string `env:"CHANNEL_ID,required,notEmpty"`
	OwnerID      string `env:"BOT_OWNER,required,notEmpty"`

	RefreshIntervalMinutes int `env:"REFRESH_INTERVAL,required"`
	PostIntervalMinutes    int `env:"POST_INTERVAL,required"`
	MaxArticleAgeDays      int `env:"OLDEST_POST_DELTA,required"`

	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`
	DBPath       string        `env:"DB_PATH"       envDefault:"feedherald.db"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RefreshIntervalMinutes <= 0 {
		return Config{}, fmt.Errorf("REFRESH_INTERVAL must be a positive number of minutes, got %d", cfg.RefreshIntervalMinutes)
	}
	if cfg.PostIntervalMinutes <= 0 {
		return Config{}, fmt.Errorf("POST_INTERVAL must be a positive number of minutes, got %d", cfg.PostIntervalMinutes)
	}
	if cfg.MaxArticleAgeDays <= 0 {
		return Config{}, fmt.Errorf("OLDEST_POST_DELTA must be a positive number of days, got %d", cfg.MaxArticleAgeDays)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}

	return cfg, nil
}

// RefreshInterval is the cadence of the ingestion cycle.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// PostInterval is the cadence of the announcement cycle.
func (c Config) PostInterval() time.Duration {
	return time.Duration(c.PostIntervalMinutes) * time.Minute
}

// MaxArticleAge is the freshness threshold: entries older than this are
// never ingested, even on a source's first cycle.
func (c Config) MaxArticleAge() time.Duration {
	return time.Duration(c.MaxArticleAgeDays) * 24 * time.Hour
}
