package announce

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"feedherald/internal/domain"
)

type stubStore struct {
	articles []domain.Article
	sources  map[string]domain.Source

	markErr error
}

func (s *stubStore) UnpostedArticles(_ context.Context) ([]domain.Article, error) {
	var unposted []domain.Article
	for _, a := range s.articles {
		if !a.Posted {
			unposted = append(unposted, a)
		}
	}

	return unposted, nil
}

func (s *stubStore) GetSource(_ context.Context, subdomain string) (*domain.Source, error) {
	src, ok := s.sources[subdomain]
	if !ok {
		return nil, domain.ErrUnknownSource
	}

	return &src, nil
}

func (s *stubStore) MarkPosted(_ context.Context, articleID int64) error {
	if s.markErr != nil {
		return s.markErr
	}

	for i := range s.articles {
		if s.articles[i].ID == articleID {
			s.articles[i].Posted = true

			return nil
		}
	}

	return errors.New("no such article")
}

type stubTransport struct {
	ready   bool
	sendErr error
	sent    []Announcement
}

func (t *stubTransport) ChannelReady() bool {
	return t.ready
}

func (t *stubTransport) SendArticle(_ context.Context, a Announcement) error {
	if t.sendErr != nil {
		return t.sendErr
	}

	t.sent = append(t.sent, a)

	return nil
}

func testArticle(id int64, title string, published time.Time) domain.Article {
	return domain.Article{
		ID:              id,
		SourceSubdomain: "alice",
		Title:           title,
		URL:             "https://alice.substack.com/p/x",
		Published:       published,
	}
}

func testSources() map[string]domain.Source {
	return map[string]domain.Source{
		"alice": {Subdomain: "alice", Name: "Alice", Thumbnail: "https://img.example/a.png"},
	}
}

func TestPostPendingAnnouncesOnce(t *testing.T) {
	published := time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC)

	store := &stubStore{
		articles: []domain.Article{testArticle(1, "Post A", published)},
		sources:  testSources(),
	}
	transport := &stubTransport{ready: true}

	engine := New(store, transport, slog.Default())

	if err := engine.PostPending(context.Background()); err != nil {
		t.Fatalf("first PostPending: %v", err)
	}
	if len(transport.sent) != 1 {
		t.Fatalf("expected one announcement, got %d", len(transport.sent))
	}
	if !store.articles[0].Posted {
		t.Fatalf("delivered article must be marked posted")
	}

	if err := engine.PostPending(context.Background()); err != nil {
		t.Fatalf("second PostPending: %v", err)
	}
	if len(transport.sent) != 1 {
		t.Fatalf("posted article must never be announced again, got %d sends", len(transport.sent))
	}
}

func TestPostPendingSendFailureLeavesUnposted(t *testing.T) {
	published := time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC)

	store := &stubStore{
		articles: []domain.Article{testArticle(1, "Post A", published)},
		sources:  testSources(),
	}
	transport := &stubTransport{ready: true, sendErr: errors.New("send failed")}

	engine := New(store, transport, slog.Default())

	if err := engine.PostPending(context.Background()); err == nil {
		t.Fatalf("expected the cycle to report the send failure")
	}
	if store.articles[0].Posted {
		t.Fatalf("article must stay unposted after a failed delivery")
	}

	// Next tick with a healthy transport retries the same article.
	transport.sendErr = nil
	if err := engine.PostPending(context.Background()); err != nil {
		t.Fatalf("retry PostPending: %v", err)
	}
	if len(transport.sent) != 1 || !store.articles[0].Posted {
		t.Fatalf("expected the retry to deliver and mark the article")
	}
}

func TestPostPendingStopsCycleOnSendFailure(t *testing.T) {
	published := time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC)

	store := &stubStore{
		articles: []domain.Article{
			testArticle(1, "Post A", published),
			testArticle(2, "Post B", published.Add(time.Hour)),
		},
		sources: testSources(),
	}
	transport := &stubTransport{ready: true, sendErr: errors.New("send failed")}

	engine := New(store, transport, slog.Default())

	if err := engine.PostPending(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}

	for _, a := range store.articles {
		if a.Posted {
			t.Fatalf("no article may be marked posted in an aborted cycle")
		}
	}
}

func TestPostPendingPreservesStoreOrder(t *testing.T) {
	published := time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC)

	store := &stubStore{
		articles: []domain.Article{
			testArticle(1, "Post A", published),
			testArticle(2, "Post B", published.Add(time.Hour)),
			testArticle(3, "Post C", published.Add(2*time.Hour)),
		},
		sources: testSources(),
	}
	transport := &stubTransport{ready: true}

	engine := New(store, transport, slog.Default())

	if err := engine.PostPending(context.Background()); err != nil {
		t.Fatalf("PostPending: %v", err)
	}

	want := []string{"Post A", "Post B", "Post C"}
	if len(transport.sent) != len(want) {
		t.Fatalf("expected %d announcements, got %d", len(want), len(transport.sent))
	}
	for i, title := range want {
		if transport.sent[i].Title != title {
			t.Fatalf("announcement %d: expected %q, got %q", i, title, transport.sent[i].Title)
		}
	}
}

func TestPostPendingNoopWhenChannelNotReady(t *testing.T) {
	store := &stubStore{
		articles: []domain.Article{testArticle(1, "Post A", time.Now())},
		sources:  testSources(),
	}
	transport := &stubTransport{ready: false}

	engine := New(store, transport, slog.Default())

	if err := engine.PostPending(context.Background()); err != nil {
		t.Fatalf("unresolved channel must be a no-op, not an error: %v", err)
	}
	if len(transport.sent) != 0 {
		t.Fatalf("nothing may be sent before the channel is resolved")
	}
	if store.articles[0].Posted {
		t.Fatalf("nothing may be marked posted before the channel is resolved")
	}
}

func TestFormatAnnouncement(t *testing.T) {
	published := time.Date(2026, time.August, 28, 21, 45, 3, 0, time.FixedZone("EST", -5*3600))

	a := domain.Article{
		Title:     "Post A",
		URL:       "https://alice.substack.com/p/a",
		Published: published,
	}
	src := domain.Source{
		Subdomain: "alice",
		Name:      "Alice",
		Thumbnail: "https://img.example/a.png",
	}

	got := formatAnnouncement(a, src)

	if got.SourceName != "Alice" || got.Title != "Post A" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.PageURL != "https://alice.substack.com" {
		t.Fatalf("unexpected page URL: %q", got.PageURL)
	}

	// Date only, normalized to UTC, no time or zone tokens.
	if got.Published != "Sat, 29 Aug 2026" {
		t.Fatalf("unexpected published display: %q", got.Published)
	}
}
