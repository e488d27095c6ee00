// Package memory provides in-process implementations of the tier store,
// watchlist store, and signal bus. It is the default when no Redis address
// is configured and the implementation used by tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/alphatape/tapeboard/internal/domain"
)

// TierStore holds the active tier in memory, defaulting to free.
type TierStore struct {
	mu   sync.RWMutex
	tier domain.Tier
}

// NewTierStore creates a TierStore starting at the free tier.
func NewTierStore() *TierStore {
	return &TierStore{tier: domain.TierFree}
}

// Tier returns the active tier.
func (s *TierStore) Tier(ctx context.Context) (domain.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tier, nil
}

// SetTier stores the active tier. Unrecognized values normalize to free.
func (s *TierStore) SetTier(ctx context.Context, t domain.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = domain.ParseTier(string(t))
	return nil
}

// WatchlistStore keeps the watchlist in memory, newest-first, capped at
// domain.WatchlistCap.
type WatchlistStore struct {
	mu    sync.RWMutex
	items []domain.WatchItem
}

// NewWatchlistStore creates an empty WatchlistStore.
func NewWatchlistStore() *WatchlistStore {
	return &WatchlistStore{}
}

// List returns a copy of the watchlist, newest-first.
func (s *WatchlistStore) List(ctx context.Context) ([]domain.WatchItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items), nil
}

// Add inserts item at the head unless its condition id is already watched.
func (s *WatchlistStore) Add(ctx context.Context, item domain.WatchItem) error {
	if item.ConditionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ConditionID == item.ConditionID {
			return nil
		}
	}
	s.items = append([]domain.WatchItem{item}, s.items...)
	if len(s.items) > domain.WatchlistCap {
		s.items = s.items[:domain.WatchlistCap]
	}
	return nil
}

// Remove drops the item with the given condition id, if present.
func (s *WatchlistStore) Remove(ctx context.Context, conditionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.DeleteFunc(s.items, func(it domain.WatchItem) bool {
		return it.ConditionID == conditionID
	})
	return nil
}

// SignalBus is an in-process pub/sub bus with the same contract as the
// Redis-backed bus. Slow subscribers drop messages rather than blocking
// publishers.
type SignalBus struct {
	mu   sync.RWMutex
	subs map[string][]chan []byte
}

// NewSignalBus creates an empty SignalBus.
func NewSignalBus() *SignalBus {
	return &SignalBus{subs: make(map[string][]chan []byte)}
}

// Publish delivers payload to every subscriber of channel.
func (b *SignalBus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel receiving every payload published to channel
// until ctx is cancelled.
func (b *SignalBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte, 64)
	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[channel]
		for i, c := range subs {
			if c == ch {
				b.subs[channel] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}
