package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alphatape/tapeboard/internal/domain"
)

const tierKey = "tapeboard:tier"

// TierStore implements domain.TierStore on a single Redis string value.
// A missing key reads as the free tier so cold environments work without
// seeding.
type TierStore struct {
	rdb *redis.Client
}

// NewTierStore creates a TierStore backed by the given Client.
func NewTierStore(c *Client) *TierStore {
	return &TierStore{rdb: c.Underlying()}
}

// Tier returns the active tier, defaulting to free when unset.
func (s *TierStore) Tier(ctx context.Context) (domain.Tier, error) {
	v, err := s.rdb.Get(ctx, tierKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.TierFree, nil
		}
		return domain.TierFree, fmt.Errorf("redis: get tier: %w", err)
	}
	return domain.ParseTier(v), nil
}

// SetTier stores the active tier.
func (s *TierStore) SetTier(ctx context.Context, t domain.Tier) error {
	if err := s.rdb.Set(ctx, tierKey, string(domain.ParseTier(string(t))), 0).Err(); err != nil {
		return fmt.Errorf("redis: set tier: %w", err)
	}
	return nil
}
