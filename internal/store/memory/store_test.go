package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphatape/tapeboard/internal/domain"
)

func TestTierStoreDefaultsToFree(t *testing.T) {
	s := NewTierStore()
	got, err := s.Tier(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TierFree, got)
}

func TestTierStoreNormalizesUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewTierStore()

	require.NoError(t, s.SetTier(ctx, domain.TierPro))
	got, _ := s.Tier(ctx)
	assert.Equal(t, domain.TierPro, got)

	require.NoError(t, s.SetTier(ctx, domain.Tier("bogus")))
	got, _ = s.Tier(ctx)
	assert.Equal(t, domain.TierFree, got)
}

func TestWatchlistNewestFirstAndIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewWatchlistStore()

	require.NoError(t, s.Add(ctx, domain.WatchItem{ConditionID: "a", Slug: "first"}))
	require.NoError(t, s.Add(ctx, domain.WatchItem{ConditionID: "b", Slug: "second"}))
	// Duplicate condition id is a no-op, even with different metadata.
	require.NoError(t, s.Add(ctx, domain.WatchItem{ConditionID: "a", Slug: "changed"}))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ConditionID)
	assert.Equal(t, "a", items[1].ConditionID)
	assert.Equal(t, "first", items[1].Slug, "duplicate add must not overwrite")
}

func TestWatchlistCap(t *testing.T) {
	ctx := context.Background()
	s := NewWatchlistStore()

	for i := 0; i < domain.WatchlistCap+20; i++ {
		require.NoError(t, s.Add(ctx, domain.WatchItem{ConditionID: fmt.Sprintf("c%d", i)}))
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, domain.WatchlistCap)
	// The newest survives, the oldest is evicted.
	assert.Equal(t, fmt.Sprintf("c%d", domain.WatchlistCap+19), items[0].ConditionID)
}

func TestWatchlistRemove(t *testing.T) {
	ctx := context.Background()
	s := NewWatchlistStore()

	require.NoError(t, s.Add(ctx, domain.WatchItem{ConditionID: "a"}))
	require.NoError(t, s.Add(ctx, domain.WatchItem{ConditionID: "b"}))
	require.NoError(t, s.Remove(ctx, "a"))
	// Removing a missing id is not an error.
	require.NoError(t, s.Remove(ctx, "missing"))

	items, _ := s.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ConditionID)
}

func TestSignalBusDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := NewSignalBus()

	ch, err := b.Subscribe(ctx, "tape")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "tape", []byte("hello")))
	require.NoError(t, b.Publish(ctx, "other", []byte("ignored")))

	select {
	case msg := <-ch:
		assert.Equal(t, []byte("hello"), msg)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	select {
	case msg := <-ch:
		t.Fatalf("unexpected cross-channel delivery: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSignalBusUnsubscribesOnCancel(t *testing.T) {
	b := NewSignalBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, "tape")
	require.NoError(t, err)
	cancel()

	// The channel closes once the subscription is torn down.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancellation")
		}
	}
}
