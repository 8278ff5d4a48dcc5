package domain

import (
	"fmt"
	"time"
)

// Source is a followed Substack publication, identified by its subdomain.
type Source struct {
	Subdomain string
	Name      string
	Thumbnail string
}

// PageURL returns the canonical page of the publication.
func (s Source) PageURL() string {
	return fmt.Sprintf("https://%s.substack.com", s.Subdomain)
}

// Article is a single item discovered from a Source's feed. Posted flips
// false to true exactly once, after the article has been delivered.
type Article struct {
	ID              int64
	SourceSubdomain string
	Title           string
	URL             string
	Published       time.Time
	Posted          bool
}

// BannedUser is a chat user barred from mutating commands.
type BannedUser struct {
	UserID string
}
