package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/store/memory"
	"github.com/alphatape/tapeboard/internal/tier"
)

type stubFeeds struct {
	trades    []domain.Trade
	positions []domain.Position
	markets   []domain.Market

	tradeQueries []domain.TradeQuery
}

func (s *stubFeeds) GetTrades(ctx context.Context, q domain.TradeQuery) ([]domain.Trade, error) {
	s.tradeQueries = append(s.tradeQueries, q)
	return s.trades, nil
}

func (s *stubFeeds) GetPositions(ctx context.Context, q domain.PositionQuery) ([]domain.Position, error) {
	return s.positions, nil
}

func (s *stubFeeds) GetMarkets(ctx context.Context, q domain.MarketQuery) ([]domain.Market, error) {
	return s.markets, nil
}

func newRadarFixture(t *testing.T, tr domain.Tier, feeds *stubFeeds) *Radar {
	t.Helper()
	tiers := memory.NewTierStore()
	require.NoError(t, tiers.SetTier(context.Background(), tr))
	return NewRadar(feeds, feeds, feeds, tiers, memory.NewSignalBus(), tier.PolicyFor(tr), testLogger())
}

func bigBatch(n int) []domain.Trade {
	now := time.Now().Unix()
	trades := make([]domain.Trade, 0, n)
	for i := 0; i < n; i++ {
		trades = append(trades, domain.Trade{
			Wallet:      fmt.Sprintf("0xwallet%03d", i),
			ConditionID: fmt.Sprintf("cid%03d", i),
			Side:        domain.SideBuy,
			Size:        float64(1000 - i),
			Price:       0.5,
			Timestamp:   now - int64(i),
		})
	}
	return trades
}

func TestTapeTruncatesToVisibleRows(t *testing.T) {
	feeds := &stubFeeds{trades: bigBatch(30)}
	r := newRadarFixture(t, domain.TierFree, feeds)

	view, err := r.Tape(context.Background())
	require.NoError(t, err)

	pol := tier.PolicyFor(domain.TierFree)
	assert.Len(t, view.Rows, pol.VisibleRows)
	assert.Equal(t, domain.TierFree, view.Tier)
	// Feed order is preserved; the first row is the newest trade.
	assert.Equal(t, "0xwallet000", view.Rows[0].Wallet)
	assert.NotEmpty(t, view.Rows[0].NotionalUSD)
}

func TestTapeQueryFollowsTierPolicy(t *testing.T) {
	feeds := &stubFeeds{trades: bigBatch(5)}
	r := newRadarFixture(t, domain.TierPro, feeds)

	_, err := r.Tape(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, feeds.tradeQueries)
	q := feeds.tradeQueries[0]
	pol := tier.PolicyFor(domain.TierPro)
	assert.Equal(t, pol.FetchLimit, q.Limit)
	assert.Equal(t, domain.FilterCash, q.FilterType)
	assert.Equal(t, pol.MinNotional, q.FilterAmount)
}

func TestSharedBatchAcrossViews(t *testing.T) {
	feeds := &stubFeeds{trades: bigBatch(10)}
	r := newRadarFixture(t, domain.TierFree, feeds)
	ctx := context.Background()

	_, err := r.Tape(ctx)
	require.NoError(t, err)
	_, err = r.HotMarkets(ctx)
	require.NoError(t, err)
	_, err = r.WhaleWallets(ctx)
	require.NoError(t, err)

	// All three views share one polled batch.
	assert.Len(t, feeds.tradeQueries, 1)
}

func TestTopWalletsGatedOnFree(t *testing.T) {
	feeds := &stubFeeds{trades: bigBatch(5)}
	r := newRadarFixture(t, domain.TierFree, feeds)

	_, err := r.TopWallets(context.Background(), Window1d)
	assert.ErrorIs(t, err, domain.ErrFeatureGated)
}

func TestTopWalletsRanksCandidates(t *testing.T) {
	feeds := &stubFeeds{
		trades: bigBatch(5),
		positions: []domain.Position{
			{CashPnl: 120, RealizedPnl: 30, InitialValue: 500},
		},
	}
	r := newRadarFixture(t, domain.TierPro, feeds)

	view, err := r.TopWallets(context.Background(), Window7d)
	require.NoError(t, err)
	assert.Equal(t, Window7d, view.Window)
	require.NotEmpty(t, view.Rows)
	assert.Equal(t, 1, view.Rows[0].Rank)
	assert.NotEmpty(t, view.Rows[0].CashPnlUSD)
}

func TestWindowSeconds(t *testing.T) {
	assert.Equal(t, int64(86400), Window1d.Seconds())
	assert.Equal(t, int64(7*86400), Window7d.Seconds())
	assert.Equal(t, int64(30*86400), Window30d.Seconds())
	// Unknown windows default to one day.
	assert.Equal(t, int64(86400), Window("90d").Seconds())
}
