package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"feedherald/internal/announce"
	"feedherald/internal/auth"
	"feedherald/internal/bot"
	"feedherald/internal/config"
	"feedherald/internal/database"
	"feedherald/internal/feed"
	"feedherald/internal/ingest"
	"feedherald/internal/scheduler"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info(".env file is not loaded, relying on process env",
			"error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config",
			"error", err)

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(cfg.DBPath, log)
	if err != nil {
		log.Error("Failed to initialize DB",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close DB",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.Info("DB is initialized")

	fetcher := feed.NewFetcher(cfg.FetchTimeout, log)
	guard := auth.New(db, cfg.OwnerID)
	ingestor := ingest.New(db, fetcher, cfg.MaxArticleAge(), log)

	botInst, err := bot.New(cfg.DiscordToken, cfg.ChannelID, db, ingestor, guard, log)
	if err != nil {
		log.Error("Failed to initialize bot",
			"error", err)

		return
	}
	log.Info("Bot is initialized")

	announcer := announce.New(db, botInst, log)

	if err := botInst.Start(); err != nil {
		log.Error("Failed to connect to Discord",
			"error", err)

		return
	}
	defer func() {
		if err := botInst.Stop(); err != nil {
			log.Error("Failed to stop bot",
				"error", err)
		}
	}()
	log.Info("Bot is started")

	// Timers start only once the chat transport is connected.
	sched := scheduler.New(ctx, ingestor, announcer, cfg.RefreshInterval(), cfg.PostInterval(), log)
	if err := sched.Start(); err != nil {
		log.Error("Failed to start scheduler",
			"error", err)

		return
	}
	defer sched.Stop()
	log.Info("Jobs scheduled",
		"refreshInterval", cfg.RefreshInterval(),
		"postInterval", cfg.PostInterval())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case <-c:
		log.Info("Signal received, exiting...")
	case <-botInst.ExitRequested():
		log.Info("Owner requested shutdown, exiting...")
	}

	cancel()
}
