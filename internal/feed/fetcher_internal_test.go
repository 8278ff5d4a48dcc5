package feed

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestItemURL(t *testing.T) {
	item := &gofeed.Item{Link: " https://alice.substack.com/p/a "}
	if got := itemURL(item); got != "https://alice.substack.com/p/a" {
		t.Fatalf("unexpected URL: %q", got)
	}

	item = &gofeed.Item{Links: []string{"", "  ", "https://alice.substack.com/p/b"}}
	if got := itemURL(item); got != "https://alice.substack.com/p/b" {
		t.Fatalf("unexpected URL from links list: %q", got)
	}

	if got := itemURL(&gofeed.Item{}); got != "" {
		t.Fatalf("expected empty URL for a linkless item, got %q", got)
	}
}
