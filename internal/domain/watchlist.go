package domain

import "context"

// WatchlistCap bounds the persisted watchlist length; inserts beyond the cap
// evict the oldest entries.
const WatchlistCap = 200

// WatchItem is a market saved to the user's watchlist.
type WatchItem struct {
	ConditionID string `json:"conditionId"`
	Slug        string `json:"slug"`
	Question    string `json:"question"`
	AddedAt     int64  `json:"addedAt"` // unix seconds
}

// WatchlistStore persists the watchlist, newest-first. Implementations must
// behave sanely without backing storage: List returns an empty slice rather
// than failing.
type WatchlistStore interface {
	// List returns all watch items, newest-first.
	List(ctx context.Context) ([]WatchItem, error)
	// Add inserts the item at the head. It is idempotent by condition id:
	// adding an already-watched market leaves the list unchanged.
	Add(ctx context.Context, item WatchItem) error
	// Remove deletes the item with the given condition id, if present.
	Remove(ctx context.Context, conditionID string) error
}

// TierStore persists the active subscription tier. A missing or unreadable
// value reads as TierFree.
type TierStore interface {
	Tier(ctx context.Context) (Tier, error)
	SetTier(ctx context.Context, t Tier) error
}
