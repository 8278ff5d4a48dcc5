package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CHANNEL_ID", "123")
	t.Setenv("BOT_OWNER", "owner-1")
	t.Setenv("REFRESH_INTERVAL", "5")
	t.Setenv("POST_INTERVAL", "2")
	t.Setenv("OLDEST_POST_DELTA", "30")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RefreshInterval() != 5*time.Minute {
		t.Fatalf("unexpected refresh interval: %s", cfg.RefreshInterval())
	}
	if cfg.PostInterval() != 2*time.Minute {
		t.Fatalf("unexpected post interval: %s", cfg.PostInterval())
	}
	if cfg.MaxArticleAge() != 30*24*time.Hour {
		t.Fatalf("unexpected max article age: %s", cfg.MaxArticleAge())
	}
	if cfg.FetchTimeout != 20*time.Second {
		t.Fatalf("unexpected default fetch timeout: %s", cfg.FetchTimeout)
	}
	if cfg.DBPath != "feedherald.db" {
		t.Fatalf("unexpected default DB path: %q", cfg.DBPath)
	}
}

func TestLoadRequiresIntervals(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REFRESH_INTERVAL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a missing refresh interval")
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POST_INTERVAL", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a zero post interval")
	}
}

func TestLoadRequiresToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a missing token")
	}
}
