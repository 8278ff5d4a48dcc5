package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"feedherald/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Entry is one raw item from a source's feed, before any filtering.
// Published stays a pointer: feeds emit placeholder entries without a
// publication time and the ingestion engine needs to see that.
type Entry struct {
	Title     string
	URL       string
	Published *time.Time
}

// Meta is the display metadata of a publication, resolved at subscribe time.
type Meta struct {
	Name      string
	Thumbnail string
}

// Fetcher talks to Substack. One unresponsive publication must not stall a
// whole cycle, so every request goes through a client with a hard timeout.
type Fetcher struct {
	parser *gofeed.Parser
	client *http.Client
	log    *slog.Logger
}

func NewFetcher(timeout time.Duration, log *slog.Logger) *Fetcher {
	client := &http.Client{Timeout: timeout}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &Fetcher{
		parser: parser,
		client: client,
		log:    log,
	}
}

// FeedURL returns the RSS feed location for a publication subdomain.
func FeedURL(subdomain string) string {
	return fmt.Sprintf("https://%s.substack.com/feed", subdomain)
}

// FetchEntries returns the current items of a publication's feed, in feed
// order.
func (f *Fetcher) FetchEntries(ctx context.Context, subdomain string) ([]Entry, error) {
	feedURL := FeedURL(subdomain)

	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed (URL = %s): %w", feedURL, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		entries = append(entries, Entry{
			Title:     strings.TrimSpace(item.Title),
			URL:       itemURL(item),
			Published: item.PublishedParsed,
		})
	}

	return entries, nil
}

// FetchMeta resolves a publication's display metadata from its feed. A feed
// without a discoverable title means there is no such publication, reported
// as domain.ErrSourceNotFound.
func (f *Fetcher) FetchMeta(ctx context.Context, subdomain string) (*Meta, error) {
	feedURL := FeedURL(subdomain)

	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		f.log.WarnContext(ctx, "Failed to resolve feed",
			"error", err,
			"subdomain", subdomain,
			"feedURL", feedURL)

		return nil, fmt.Errorf("%w: %q", domain.ErrSourceNotFound, subdomain)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrSourceNotFound, subdomain)
	}

	// Substack carries the author name in the copyright field.
	name := strings.TrimSpace(parsed.Copyright)
	if name == "" {
		name = title
	}

	thumbnail := ""
	if parsed.Image != nil {
		thumbnail = strings.TrimSpace(parsed.Image.URL)
	}
	if thumbnail == "" {
		thumbnail = f.fetchPageThumbnail(ctx, subdomain)
	}

	return &Meta{Name: name, Thumbnail: thumbnail}, nil
}

func itemURL(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}

	for _, link := range item.Links {
		if trimmed := strings.TrimSpace(link); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
