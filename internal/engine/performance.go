package engine

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/alphatape/tapeboard/internal/domain"
)

// positionFetchConcurrency bounds parallel per-wallet position fetches in
// the enrichment fan-out.
const positionFetchConcurrency = 4

// RankByCashPnl enriches each candidate wallet with its position snapshot
// and ranks the results by summed cash PnL, descending, truncated to the
// leaderboard size. A failed fetch excludes that candidate only; the ranking
// itself never fails.
func RankByCashPnl(ctx context.Context, candidates []domain.Candidate, positions domain.PositionFeed, logger *slog.Logger) []domain.WalletPerformance {
	rows := make([]*domain.WalletPerformance, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(positionFetchConcurrency)
	for i, cand := range candidates {
		g.Go(func() error {
			snap, err := positions.GetPositions(ctx, domain.PositionQuery{
				User:          cand.Wallet,
				Limit:         30,
				SortBy:        "CASHPNL",
				SortDirection: domain.SortDesc,
				SizeThreshold: 1,
			})
			if err != nil {
				// Partial failure: drop the candidate, keep the ranking.
				logger.Warn("excluding candidate wallet after position fetch failure",
					slog.String("wallet", cand.Wallet),
					slog.String("error", err.Error()),
				)
				return nil
			}

			row := &domain.WalletPerformance{
				Wallet:       cand.Wallet,
				FlowNotional: cand.FlowNotional,
				Positions:    len(snap),
			}
			for _, p := range snap {
				row.CashPnl += p.CashPnl
				row.RealizedPnl += p.RealizedPnl
				row.InitialValue += p.InitialValue
			}
			rows[i] = row
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]domain.WalletPerformance, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			ranked = append(ranked, *row)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CashPnl > ranked[j].CashPnl
	})
	ranked = truncate(ranked, LeaderboardSize)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
