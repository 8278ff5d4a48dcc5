package auth

import (
	"context"
	"testing"
)

type stubBanStore struct {
	banned map[string]bool
}

func (s *stubBanStore) IsBanned(_ context.Context, userID string) (bool, error) {
	return s.banned[userID], nil
}

func TestGuard(t *testing.T) {
	guard := New(&stubBanStore{banned: map[string]bool{"bad": true}}, "owner-1")

	if !guard.IsOwner("owner-1") {
		t.Fatalf("expected owner-1 to be the owner")
	}
	if guard.IsOwner("someone-else") {
		t.Fatalf("expected someone-else not to be the owner")
	}

	banned, err := guard.IsBanned(context.Background(), "bad")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if !banned {
		t.Fatalf("expected bad to be banned")
	}

	banned, err = guard.IsBanned(context.Background(), "good")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if banned {
		t.Fatalf("expected good not to be banned")
	}
}
