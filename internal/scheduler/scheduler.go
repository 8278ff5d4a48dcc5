package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher runs one ingestion cycle.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Poster runs one announcement cycle.
type Poster interface {
	PostPending(ctx context.Context) error
}

// Scheduler drives the two cycles on independent fixed intervals. A tick
// that is still running when the next one is due is skipped, not queued.
type Scheduler struct {
	ctx             context.Context
	cron            *cron.Cron
	refresher       Refresher
	poster          Poster
	refreshInterval time.Duration
	postInterval    time.Duration
	log             *slog.Logger
}

func New(
	ctx context.Context,
	refresher Refresher,
	poster Poster,
	refreshInterval time.Duration,
	postInterval time.Duration,
	log *slog.Logger,
) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		ctx:             ctx,
		cron:            c,
		refresher:       refresher,
		poster:          poster,
		refreshInterval: refreshInterval,
		postInterval:    postInterval,
		log:             log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(everySpec(s.refreshInterval), s.refresh); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	if _, err := s.cron.AddFunc(everySpec(s.postInterval), s.post); err != nil {
		return fmt.Errorf("add post job: %w", err)
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) refresh() {
	// A cycle gets at most its own interval; together with the skip chain
	// this bounds how far one slow source can push everything else.
	ctx, cancel := context.WithTimeout(s.ctx, s.refreshInterval)
	defer cancel()

	if ctx.Err() != nil {
		return
	}

	s.log.InfoContext(ctx, "Fetching new articles")

	if err := s.refresher.RefreshAll(ctx); err != nil {
		s.log.ErrorContext(ctx, "Refresh cycle finished with errors",
			"error", err)
	}
}

func (s *Scheduler) post() {
	ctx, cancel := context.WithTimeout(s.ctx, s.postInterval)
	defer cancel()

	if ctx.Err() != nil {
		return
	}

	s.log.InfoContext(ctx, "Posting new articles")

	if err := s.poster.PostPending(ctx); err != nil {
		s.log.ErrorContext(ctx, "Post cycle finished with errors",
			"error", err)
	}
}

func everySpec(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval)
}
