package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"feedherald/internal/domain"
	"feedherald/internal/feed"
)

// Substack emits placeholder entries for scheduled-but-unpublished posts.
const placeholderTitle = "Coming soon"

// Store is the slice of the persistent store the ingestion engine needs.
type Store interface {
	ListSources(ctx context.Context) ([]domain.Source, error)
	CreateSource(ctx context.Context, src domain.Source) error
	DeleteSource(ctx context.Context, subdomain string) (*domain.Source, error)
	InsertArticle(ctx context.Context, a domain.Article) (bool, error)
}

// Fetcher is the feed-fetch capability the engine consumes.
type Fetcher interface {
	FetchEntries(ctx context.Context, subdomain string) ([]feed.Entry, error)
	FetchMeta(ctx context.Context, subdomain string) (*feed.Meta, error)
}

// Engine discovers new articles for every followed source and persists them
// as unposted. It holds no state between cycles; the store is authoritative.
type Engine struct {
	store   Store
	fetcher Fetcher
	maxAge  time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func New(store Store, fetcher Fetcher, maxAge time.Duration, log *slog.Logger) *Engine {
	return &Engine{
		store:   store,
		fetcher: fetcher,
		maxAge:  maxAge,
		now:     time.Now,
		log:     log,
	}
}

// RefreshAll runs one ingestion cycle over every followed source. A fetch
// failure for one source is logged and does not abort the rest; the joined
// error reports everything that went wrong.
func (e *Engine) RefreshAll(ctx context.Context) error {
	sources, err := e.store.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var errs []error
	for _, src := range sources {
		if err := e.refreshSource(ctx, src); err != nil {
			e.log.ErrorContext(ctx, "Failed to refresh source",
				"error", err,
				"subdomain", src.Subdomain)

			errs = append(errs, fmt.Errorf("refresh %q: %w", src.Subdomain, err))
		}
	}

	return errors.Join(errs...)
}

func (e *Engine) refreshSource(ctx context.Context, src domain.Source) error {
	entries, err := e.fetcher.FetchEntries(ctx, src.Subdomain)
	if err != nil {
		return fmt.Errorf("fetch entries: %w", err)
	}

	now := e.now()

	var errs []error
	ingested := 0

	for _, entry := range entries {
		if !isArticle(entry) {
			continue
		}

		if now.Sub(*entry.Published) > e.maxAge {
			continue
		}

		inserted, err := e.store.InsertArticle(ctx, domain.Article{
			SourceSubdomain: src.Subdomain,
			Title:           entry.Title,
			URL:             entry.URL,
			Published:       entry.Published.UTC(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("insert article %q: %w", entry.Title, err))
			continue
		}

		if inserted {
			ingested++
		}
	}

	if ingested > 0 {
		e.log.InfoContext(ctx, "Ingested new articles",
			"subdomain", src.Subdomain,
			"count", ingested)
	}

	return errors.Join(errs...)
}

// isArticle rejects entries without a publication time and the "Coming soon"
// placeholders Substack puts on feeds for scheduled posts.
func isArticle(entry feed.Entry) bool {
	return entry.Published != nil && entry.Title != placeholderTitle
}
