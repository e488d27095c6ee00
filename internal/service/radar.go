// Package service orchestrates the feed clients, polling caches, and
// aggregation engine into the views the API and WebSocket hub serve.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/engine"
	"github.com/alphatape/tapeboard/internal/poll"
	"github.com/alphatape/tapeboard/internal/tier"
)

// Bus channels carrying refresh events to the WebSocket hub.
const (
	ChannelTape         = "tape"
	ChannelHotMarkets   = "hot_markets"
	ChannelWhaleWallets = "whale_wallets"
	ChannelTopWallets   = "top_wallets"
	ChannelWatchlist    = "watchlist"
)

// Window is a leaderboard lookback period.
type Window string

const (
	Window1d  Window = "1d"
	Window7d  Window = "7d"
	Window30d Window = "30d"
)

// Seconds returns the window length in seconds. Unknown windows default to
// one day.
func (w Window) Seconds() int64 {
	switch w {
	case Window7d:
		return 7 * 24 * 3600
	case Window30d:
		return 30 * 24 * 3600
	default:
		return 24 * 3600
	}
}

// Radar serves the live tape, hot-markets radar, whale-wallet radar, and
// top-profitable-wallets leaderboard from a shared polled trade batch.
type Radar struct {
	trades    domain.TradeFeed
	positions domain.PositionFeed
	markets   domain.MarketFeed
	tiers     domain.TierStore
	bus       domain.SignalBus
	logger    *slog.Logger

	tapeCache *poll.Cache[[]domain.Trade]
	perfCache *poll.Cache[[]domain.WalletPerformance]
	lookCache *poll.Cache[domain.WalletActivity]
	mktCache  *poll.Cache[[]domain.Market]

	mu        sync.Mutex
	published map[string]struct{} // tape keys already wired to bus publication
}

// NewRadar creates a Radar. The poll cadence comes from the tier active at
// construction time; batch parameters re-resolve on every call.
func NewRadar(
	trades domain.TradeFeed,
	positions domain.PositionFeed,
	markets domain.MarketFeed,
	tiers domain.TierStore,
	bus domain.SignalBus,
	pol tier.Params,
	logger *slog.Logger,
) *Radar {
	cfg := poll.Config{StaleTime: pol.StaleTime, RefetchInterval: pol.RefreshInterval}
	logger = logger.With(slog.String("component", "radar"))
	return &Radar{
		trades:    trades,
		positions: positions,
		markets:   markets,
		tiers:     tiers,
		bus:       bus,
		logger:    logger,
		tapeCache: poll.New[[]domain.Trade](cfg, logger),
		perfCache: poll.New[[]domain.WalletPerformance](cfg, logger),
		lookCache: poll.New[domain.WalletActivity](cfg, logger),
		mktCache:  poll.New[[]domain.Market](cfg, logger),
		published: make(map[string]struct{}),
	}
}

// policy resolves the current tier's engine parameters. Store failures fall
// back to the free tier rather than surfacing an error.
func (r *Radar) policy(ctx context.Context) (domain.Tier, tier.Params) {
	t, err := r.tiers.Tier(ctx)
	if err != nil {
		r.logger.Warn("tier store read failed, assuming free", slog.String("error", err.Error()))
		t = domain.TierFree
	}
	return t, tier.PolicyFor(t)
}

// tapeQuery builds the shared trade-batch query for the current tier.
func tapeQuery(pol tier.Params) domain.TradeQuery {
	return domain.TradeQuery{
		Limit:        pol.FetchLimit,
		FilterType:   domain.FilterCash,
		FilterAmount: pol.MinNotional,
	}
}

// batch returns the current polled trade batch, blocking only on a cold
// cache. The returned result may carry both a stale batch and the error
// that kept it stale.
func (r *Radar) batch(ctx context.Context, pol tier.Params) poll.Result[[]domain.Trade] {
	q := tapeQuery(pol)
	key := poll.Key("trades", q)
	r.ensurePublisher(key)
	return r.tapeCache.GetWait(ctx, key, func(ctx context.Context) ([]domain.Trade, error) {
		return r.trades.GetTrades(ctx, q)
	})
}

// Batch returns the current raw trade batch, unformatted. Export uses this
// so the CSV carries full precision rather than display strings.
func (r *Radar) Batch(ctx context.Context) ([]domain.Trade, error) {
	_, pol := r.policy(ctx)
	res := r.batch(ctx, pol)
	if !res.HasValue && res.Err != nil {
		return nil, fmt.Errorf("radar: batch: %w", res.Err)
	}
	return res.Value, nil
}

// Tape returns the live tape view for the current tier.
func (r *Radar) Tape(ctx context.Context) (TapeView, error) {
	t, pol := r.policy(ctx)
	res := r.batch(ctx, pol)
	if !res.HasValue && res.Err != nil {
		return TapeView{}, fmt.Errorf("radar: tape: %w", res.Err)
	}
	return newTapeView(t, pol, res), nil
}

// HotMarkets returns the per-market flow rollup of the current batch.
func (r *Radar) HotMarkets(ctx context.Context) (MarketFlowView, error) {
	t, pol := r.policy(ctx)
	res := r.batch(ctx, pol)
	if !res.HasValue && res.Err != nil {
		return MarketFlowView{}, fmt.Errorf("radar: hot markets: %w", res.Err)
	}
	return newMarketFlowView(t, engine.MarketFlows(res.Value), res), nil
}

// WhaleWallets returns the per-wallet flow rollup of the current batch.
func (r *Radar) WhaleWallets(ctx context.Context) (WalletFlowView, error) {
	t, pol := r.policy(ctx)
	res := r.batch(ctx, pol)
	if !res.HasValue && res.Err != nil {
		return WalletFlowView{}, fmt.Errorf("radar: whale wallets: %w", res.Err)
	}
	return newWalletFlowView(t, engine.WalletFlows(res.Value), res), nil
}

// TopWallets returns the windowed profitability leaderboard. It is gated to
// tiers with a non-zero candidate budget.
func (r *Radar) TopWallets(ctx context.Context, w Window) (PerformanceView, error) {
	t, pol := r.policy(ctx)
	if pol.CandidateWallets == 0 || !pol.Features.Leaderboards {
		return PerformanceView{}, fmt.Errorf("radar: top wallets: %w", domain.ErrFeatureGated)
	}

	key := poll.Key("top-wallets", struct {
		Window Window `json:"window"`
		Tier   domain.Tier `json:"tier"`
	}{w, t})

	res := r.perfCache.GetWait(ctx, key, func(ctx context.Context) ([]domain.WalletPerformance, error) {
		batch := r.batch(ctx, pol)
		if !batch.HasValue {
			if batch.Err != nil {
				return nil, batch.Err
			}
			return nil, fmt.Errorf("trade batch unavailable")
		}
		cutoff := time.Now().Unix() - w.Seconds()
		candidates := engine.CandidateWallets(batch.Value, cutoff, pol.CandidateWallets)
		return engine.RankByCashPnl(ctx, candidates, r.positions, r.logger), nil
	})
	if !res.HasValue && res.Err != nil {
		return PerformanceView{}, fmt.Errorf("radar: top wallets: %w", res.Err)
	}
	return newPerformanceView(t, w, res), nil
}

// Lookup returns positions and recent trades for a single wallet.
func (r *Radar) Lookup(ctx context.Context, wallet string) (LookupView, error) {
	t, _ := r.policy(ctx)

	key := poll.Key("wallet", struct {
		Wallet string `json:"wallet"`
	}{wallet})

	res := r.lookCache.GetWait(ctx, key, func(ctx context.Context) (domain.WalletActivity, error) {
		act := domain.WalletActivity{Wallet: wallet}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			positions, err := r.positions.GetPositions(ctx, domain.PositionQuery{
				User:          wallet,
				Limit:         20,
				SortBy:        "CASHPNL",
				SortDirection: domain.SortDesc,
				SizeThreshold: 1,
			})
			if err != nil {
				return err
			}
			act.Positions = positions
			return nil
		})
		g.Go(func() error {
			trades, err := r.trades.GetTrades(ctx, domain.TradeQuery{User: wallet, Limit: 12})
			if err != nil {
				return err
			}
			act.Trades = trades
			return nil
		})
		if err := g.Wait(); err != nil {
			return domain.WalletActivity{}, err
		}
		return act, nil
	})
	if !res.HasValue && res.Err != nil {
		return LookupView{}, fmt.Errorf("radar: lookup %s: %w", wallet, res.Err)
	}
	return newLookupView(t, res), nil
}

// TrendingMarkets returns active markets from the Gamma feed.
func (r *Radar) TrendingMarkets(ctx context.Context, limit int) ([]domain.Market, error) {
	if limit <= 0 {
		limit = 30
	}
	active, closed := true, false
	q := domain.MarketQuery{Limit: limit, Active: &active, Closed: &closed}
	key := poll.Key("markets", q)

	res := r.mktCache.GetWait(ctx, key, func(ctx context.Context) ([]domain.Market, error) {
		return r.markets.GetMarkets(ctx, q)
	})
	if !res.HasValue && res.Err != nil {
		return nil, fmt.Errorf("radar: trending markets: %w", res.Err)
	}
	return res.Value, nil
}

// Run drives the proactive poll loops until ctx is cancelled: the shared
// tape batch on the tier's refresh interval, plus the leaderboard for tiers
// that have one. Each iteration re-resolves the tier so cadence and batch
// parameters follow tier changes without a restart.
func (r *Radar) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			_, pol := r.policy(ctx)
			q := tapeQuery(pol)
			key := poll.Key("trades", q)
			r.ensurePublisher(key)
			r.tapeCache.Refresh(ctx, key, func(ctx context.Context) ([]domain.Trade, error) {
				return r.trades.GetTrades(ctx, q)
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pol.RefreshInterval):
			}
		}
	})

	g.Go(func() error {
		for {
			_, pol := r.policy(ctx)
			if pol.CandidateWallets > 0 && pol.Features.Leaderboards {
				if view, err := r.TopWallets(ctx, Window1d); err == nil {
					r.publish(ctx, ChannelTopWallets, view)
				}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pol.RefreshInterval):
			}
		}
	})

	return g.Wait()
}

// ensurePublisher wires one bus publication per tape cache key: every
// completed batch fetch re-broadcasts the tape and both radar rollups.
func (r *Radar) ensurePublisher(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.published[key]; ok {
		return
	}
	r.published[key] = struct{}{}

	r.tapeCache.Subscribe(key, func(res poll.Result[[]domain.Trade]) {
		if res.Err != nil || !res.HasValue {
			return
		}
		ctx := context.Background()
		t, pol := r.policy(ctx)
		r.publish(ctx, ChannelTape, newTapeView(t, pol, res))
		r.publish(ctx, ChannelHotMarkets, newMarketFlowView(t, engine.MarketFlows(res.Value), res))
		r.publish(ctx, ChannelWhaleWallets, newWalletFlowView(t, engine.WalletFlows(res.Value), res))
	})
}

func (r *Radar) publish(ctx context.Context, channel string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.bus.Publish(ctx, channel, payload); err != nil {
		r.logger.Warn("bus publish failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}
