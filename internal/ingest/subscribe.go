package ingest

import (
	"context"
	"fmt"

	"feedherald/internal/domain"
	"feedherald/internal/feed"
)

// Subscribe resolves a candidate source and persists it. The source row is
// only created after the feed yields a display name, so a failed resolution
// never leaves a partial record behind. Returns domain.ErrSourceNotFound
// when the feed cannot be resolved and domain.ErrDuplicateSource when the
// subdomain is already followed.
func (e *Engine) Subscribe(ctx context.Context, input string) (*domain.Source, error) {
	subdomain, err := feed.SubdomainFromInput(input)
	if err != nil {
		return nil, err
	}

	meta, err := e.fetcher.FetchMeta(ctx, subdomain)
	if err != nil {
		return nil, fmt.Errorf("resolve source: %w", err)
	}

	src := domain.Source{
		Subdomain: subdomain,
		Name:      meta.Name,
		Thumbnail: meta.Thumbnail,
	}

	if err := e.store.CreateSource(ctx, src); err != nil {
		return nil, err
	}

	e.log.InfoContext(ctx, "Subscribed to source",
		"subdomain", subdomain,
		"name", meta.Name)

	return &src, nil
}

// Unsubscribe removes a followed source. Returns domain.ErrUnknownSource
// when no such subscription exists.
func (e *Engine) Unsubscribe(ctx context.Context, input string) (*domain.Source, error) {
	subdomain, err := feed.SubdomainFromInput(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, input)
	}

	src, err := e.store.DeleteSource(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	e.log.InfoContext(ctx, "Unsubscribed from source",
		"subdomain", subdomain,
		"name", src.Name)

	return src, nil
}
