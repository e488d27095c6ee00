package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/tier"
)

// Watchlist wraps the watchlist store with the copy-portfolio action and
// bus notifications.
type Watchlist struct {
	store     domain.WatchlistStore
	positions domain.PositionFeed
	tiers     domain.TierStore
	bus       domain.SignalBus
	logger    *slog.Logger
}

// NewWatchlist creates a Watchlist service.
func NewWatchlist(
	store domain.WatchlistStore,
	positions domain.PositionFeed,
	tiers domain.TierStore,
	bus domain.SignalBus,
	logger *slog.Logger,
) *Watchlist {
	return &Watchlist{
		store:     store,
		positions: positions,
		tiers:     tiers,
		bus:       bus,
		logger:    logger.With(slog.String("component", "watchlist")),
	}
}

// List returns the watchlist, newest-first.
func (w *Watchlist) List(ctx context.Context) ([]domain.WatchItem, error) {
	items, err := w.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("watchlist: list: %w", err)
	}
	return items, nil
}

// Add saves a market to the watchlist. The store makes this idempotent by
// condition id.
func (w *Watchlist) Add(ctx context.Context, item domain.WatchItem) error {
	if item.ConditionID == "" {
		return fmt.Errorf("watchlist: add: condition id is required")
	}
	if item.AddedAt == 0 {
		item.AddedAt = time.Now().Unix()
	}
	if err := w.store.Add(ctx, item); err != nil {
		return fmt.Errorf("watchlist: add %s: %w", item.ConditionID, err)
	}
	w.notify(ctx, "added", item.ConditionID)
	return nil
}

// Remove deletes a market from the watchlist.
func (w *Watchlist) Remove(ctx context.Context, conditionID string) error {
	if err := w.store.Remove(ctx, conditionID); err != nil {
		return fmt.Errorf("watchlist: remove %s: %w", conditionID, err)
	}
	w.notify(ctx, "removed", conditionID)
	return nil
}

// CopyPortfolio fetches a wallet's current positions and saves each one's
// market to the watchlist. It is a team-tier feature and idempotent per
// market; the returned count covers newly added entries only.
func (w *Watchlist) CopyPortfolio(ctx context.Context, wallet string) (int, error) {
	t, err := w.tiers.Tier(ctx)
	if err != nil {
		t = domain.TierFree
	}
	if !tier.PolicyFor(t).Features.CopyTrading {
		return 0, fmt.Errorf("watchlist: copy portfolio: %w", domain.ErrFeatureGated)
	}

	positions, err := w.positions.GetPositions(ctx, domain.PositionQuery{
		User:          wallet,
		Limit:         50,
		SortBy:        "CURRENT",
		SortDirection: domain.SortDesc,
		SizeThreshold: 1,
	})
	if err != nil {
		return 0, fmt.Errorf("watchlist: copy portfolio %s: %w", wallet, err)
	}

	existing := make(map[string]struct{})
	if items, err := w.store.List(ctx); err == nil {
		for _, it := range items {
			existing[it.ConditionID] = struct{}{}
		}
	}

	added := 0
	now := time.Now().Unix()
	for _, p := range positions {
		if p.ConditionID == "" || p.Slug == "" {
			continue
		}
		if _, ok := existing[p.ConditionID]; ok {
			continue
		}
		question := p.Title
		if question == "" {
			question = p.Slug
		}
		if err := w.store.Add(ctx, domain.WatchItem{
			ConditionID: p.ConditionID,
			Slug:        p.Slug,
			Question:    question,
			AddedAt:     now,
		}); err != nil {
			w.logger.Warn("copy portfolio: add failed",
				slog.String("condition_id", p.ConditionID),
				slog.String("error", err.Error()),
			)
			continue
		}
		existing[p.ConditionID] = struct{}{}
		added++
	}

	w.logger.InfoContext(ctx, "copied portfolio to watchlist",
		slog.String("wallet", wallet),
		slog.Int("added", added),
	)
	w.notify(ctx, "copied", wallet)
	return added, nil
}

func (w *Watchlist) notify(ctx context.Context, action, subject string) {
	payload, _ := json.Marshal(map[string]string{
		"event":   "watchlist_" + action,
		"subject": subject,
	})
	if err := w.bus.Publish(ctx, ChannelWatchlist, payload); err != nil {
		w.logger.Warn("bus publish failed", slog.String("error", err.Error()))
	}
}
