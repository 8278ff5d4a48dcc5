package auth

import "context"

// BanStore is the read side of the ban list.
type BanStore interface {
	IsBanned(ctx context.Context, userID string) (bool, error)
}

// Guard answers the two questions every mutating command handler asks.
type Guard struct {
	store   BanStore
	ownerID string
}

func New(store BanStore, ownerID string) *Guard {
	return &Guard{
		store:   store,
		ownerID: ownerID,
	}
}

func (g *Guard) IsOwner(userID string) bool {
	return userID == g.ownerID
}

func (g *Guard) IsBanned(ctx context.Context, userID string) (bool, error) {
	return g.store.IsBanned(ctx, userID)
}
