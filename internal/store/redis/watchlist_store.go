package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alphatape/tapeboard/internal/domain"
)

const watchlistKey = "tapeboard:watchlist"

// WatchlistStore implements domain.WatchlistStore on a Redis list of
// JSON-serialized watch items, newest at the head, trimmed to the cap.
//
// Key schema:
//
//	tapeboard:watchlist - list with one JSON WatchItem per element
type WatchlistStore struct {
	rdb *redis.Client
}

// NewWatchlistStore creates a WatchlistStore backed by the given Client.
func NewWatchlistStore(c *Client) *WatchlistStore {
	return &WatchlistStore{rdb: c.Underlying()}
}

// List returns all watch items, newest-first. Elements that fail to decode
// are skipped rather than failing the listing.
func (s *WatchlistStore) List(ctx context.Context) ([]domain.WatchItem, error) {
	raw, err := s.rdb.LRange(ctx, watchlistKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list watchlist: %w", err)
	}

	items := make([]domain.WatchItem, 0, len(raw))
	for _, r := range raw {
		var item domain.WatchItem
		if err := json.Unmarshal([]byte(r), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Add pushes item to the head unless its condition id is already present,
// then trims the list to the cap. Duplicate adds leave existing entries and
// their order untouched.
func (s *WatchlistStore) Add(ctx context.Context, item domain.WatchItem) error {
	if item.ConditionID == "" {
		return nil
	}

	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ConditionID == item.ConditionID {
			return nil
		}
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("redis: marshal watch item %s: %w", item.ConditionID, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, watchlistKey, data)
	pipe.LTrim(ctx, watchlistKey, 0, int64(domain.WatchlistCap-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: add watch item %s: %w", item.ConditionID, err)
	}
	return nil
}

// Remove rewrites the list without the given condition id.
func (s *WatchlistStore) Remove(ctx context.Context, conditionID string) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]any, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- { // reverse so LPush restores order
		if items[i].ConditionID == conditionID {
			continue
		}
		data, err := json.Marshal(items[i])
		if err != nil {
			continue
		}
		kept = append(kept, data)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, watchlistKey)
	if len(kept) > 0 {
		pipe.LPush(ctx, watchlistKey, kept...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: remove watch item %s: %w", conditionID, err)
	}
	return nil
}
