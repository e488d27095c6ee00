// Package engine contains the pure trade-aggregation transforms behind the
// hot-markets radar, whale-wallet radar, and profitability leaderboard.
// Every function is deterministic for a given input batch: grouping follows
// the batch order, sorts are stable, and ties resolve to the row grouped
// first.
package engine

import (
	"sort"

	"github.com/alphatape/tapeboard/internal/domain"
)

// LeaderboardSize is the row count every ranked rollup is truncated to.
const LeaderboardSize = 10

// MarketFlows groups a trade batch by market and accumulates per-market flow.
// Trades with an empty condition id are skipped. Because batches arrive
// newest-first, the first trade seen for a market carries its most recent
// price and side.
func MarketFlows(trades []domain.Trade) []domain.MarketFlow {
	order := make([]string, 0, len(trades))
	byMarket := make(map[string]*domain.MarketFlow, len(trades))

	for _, t := range trades {
		id := t.ConditionID
		if id == "" {
			continue
		}
		row, ok := byMarket[id]
		if !ok {
			row = &domain.MarketFlow{
				ConditionID: id,
				Slug:        t.Slug,
				Title:       t.Title,
				LastPrice:   t.Price,
				LastSide:    t.Side,
			}
			byMarket[id] = row
			order = append(order, id)
		}
		row.TradeCount++
		row.TotalNotional += t.Notional()
		if row.Slug == "" {
			row.Slug = t.Slug
		}
		if row.Title == "" {
			row.Title = t.Title
		}
	}

	rows := make([]domain.MarketFlow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byMarket[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalNotional > rows[j].TotalNotional
	})
	rows = truncate(rows, LeaderboardSize)
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// WalletFlows groups a trade batch by wallet, skipping trades with an empty
// wallet. Same ordering semantics as MarketFlows.
func WalletFlows(trades []domain.Trade) []domain.WalletFlow {
	order := make([]string, 0, len(trades))
	byWallet := make(map[string]*domain.WalletFlow, len(trades))

	for _, t := range trades {
		w := t.Wallet
		if w == "" {
			continue
		}
		row, ok := byWallet[w]
		if !ok {
			row = &domain.WalletFlow{
				Wallet:        w,
				LastTimestamp: t.Timestamp,
			}
			byWallet[w] = row
			order = append(order, w)
		}
		row.TradeCount++
		row.TotalNotional += t.Notional()
	}

	rows := make([]domain.WalletFlow, 0, len(order))
	for _, w := range order {
		rows = append(rows, *byWallet[w])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalNotional > rows[j].TotalNotional
	})
	rows = truncate(rows, LeaderboardSize)
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func truncate[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
