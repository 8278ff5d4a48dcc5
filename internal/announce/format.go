package announce

import (
	"time"

	"feedherald/internal/domain"
)

// Display form of the publication date: date only, no time-of-day or
// timezone tokens. The stored published value is never touched.
const publishedDisplayLayout = "Mon, 02 Jan 2006"

func formatAnnouncement(a domain.Article, src domain.Source) Announcement {
	return Announcement{
		SourceName: src.Name,
		Title:      a.Title,
		URL:        a.URL,
		Thumbnail:  src.Thumbnail,
		PageURL:    src.PageURL(),
		Published:  formatPublished(a.Published),
	}
}

func formatPublished(published time.Time) string {
	return published.UTC().Format(publishedDisplayLayout)
}
