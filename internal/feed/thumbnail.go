package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"feedherald/internal/domain"
)

// fetchPageThumbnail scrapes the publication page for its og:image when the
// feed itself carries no image. Thumbnails are cosmetic, so any failure here
// degrades to an empty URL instead of failing the subscribe.
func (f *Fetcher) fetchPageThumbnail(ctx context.Context, subdomain string) string {
	pageURL := domain.Source{Subdomain: subdomain}.PageURL()

	thumbnail, err := f.scrapeOGImage(ctx, pageURL)
	if err != nil {
		f.log.WarnContext(ctx, "Failed to scrape page thumbnail",
			"error", err,
			"subdomain", subdomain,
			"pageURL", pageURL)

		return ""
	}

	return thumbnail
}

func (f *Fetcher) scrapeOGImage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.Error("Failed to close response body",
				"error", err,
				"pageURL", pageURL,
				"operation", "scrapeOGImage")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	if content, ok := doc.Find("meta[property='og:image']").Attr("content"); ok {
		return strings.TrimSpace(content), nil
	}

	return "", nil
}
