package announce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"feedherald/internal/domain"
)

// Store is the slice of the persistent store the announcement engine needs.
type Store interface {
	UnpostedArticles(ctx context.Context) ([]domain.Article, error)
	GetSource(ctx context.Context, subdomain string) (*domain.Source, error)
	MarkPosted(ctx context.Context, articleID int64) error
}

// Transport delivers announcements to the destination channel.
type Transport interface {
	// ChannelReady reports whether the destination channel has been
	// resolved. Before that, announcing is a no-op, not an error.
	ChannelReady() bool
	SendArticle(ctx context.Context, a Announcement) error
}

// Announcement is the formatted payload for one article.
type Announcement struct {
	SourceName string
	Title      string
	URL        string
	Thumbnail  string
	PageURL    string
	Published  string
}

// Engine announces unposted articles, oldest first. An article is marked
// posted only after the transport confirms delivery; a delivery failure
// aborts the remainder of the cycle so the next tick retries from where
// this one stopped. The store guarantees a marked article never comes back,
// so each article is announced at most once.
type Engine struct {
	store     Store
	transport Transport
	log       *slog.Logger
}

func New(store Store, transport Transport, log *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		transport: transport,
		log:       log,
	}
}

// PostPending runs one announcement cycle.
func (e *Engine) PostPending(ctx context.Context) error {
	if !e.transport.ChannelReady() {
		e.log.InfoContext(ctx, "Destination channel is not resolved yet, skipping cycle")

		return nil
	}

	articles, err := e.store.UnpostedArticles(ctx)
	if err != nil {
		return fmt.Errorf("list unposted articles: %w", err)
	}

	var errs []error
	for _, article := range articles {
		src, err := e.store.GetSource(ctx, article.SourceSubdomain)
		if err != nil {
			// Referential integrity makes this unreachable in normal
			// operation; skip the orphan rather than stall the queue.
			e.log.ErrorContext(ctx, "Failed to resolve article source",
				"error", err,
				"articleID", article.ID,
				"subdomain", article.SourceSubdomain)

			errs = append(errs, fmt.Errorf("resolve source %q: %w", article.SourceSubdomain, err))
			continue
		}

		if err := e.transport.SendArticle(ctx, formatAnnouncement(article, *src)); err != nil {
			errs = append(errs, fmt.Errorf("send article %q: %w", article.Title, err))

			break
		}

		if err := e.store.MarkPosted(ctx, article.ID); err != nil {
			// The article went out but could not be marked. Stop here: the
			// next cycle will re-send it, which beats silently losing track.
			e.log.ErrorContext(ctx, "Article delivered but not marked posted",
				"error", err,
				"articleID", article.ID,
				"title", article.Title)

			errs = append(errs, fmt.Errorf("mark article %d posted: %w", article.ID, err))

			break
		}

		e.log.InfoContext(ctx, "Posted new article",
			"title", article.Title,
			"source", src.Name)
	}

	return errors.Join(errs...)
}
