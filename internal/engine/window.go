package engine

import (
	"sort"

	"github.com/alphatape/tapeboard/internal/domain"
)

// FilterSince returns the trades with timestamp >= cutoff, preserving batch
// order. The lower bound is inclusive: a trade at exactly cutoff stays in.
func FilterSince(trades []domain.Trade, cutoff int64) []domain.Trade {
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Timestamp >= cutoff {
			out = append(out, t)
		}
	}
	return out
}

// CandidateWallets narrows a trade batch to the wallets with the highest
// notional flow since cutoff. This is the cheap phase of the profitability
// ranking; max bounds the number of per-wallet enrichment fetches the
// expensive phase will issue.
func CandidateWallets(trades []domain.Trade, cutoff int64, max int) []domain.Candidate {
	if max <= 0 {
		return nil
	}

	windowed := FilterSince(trades, cutoff)
	order := make([]string, 0, len(windowed))
	flow := make(map[string]float64, len(windowed))
	for _, t := range windowed {
		if t.Wallet == "" {
			continue
		}
		if _, ok := flow[t.Wallet]; !ok {
			order = append(order, t.Wallet)
		}
		flow[t.Wallet] += t.Notional()
	}

	candidates := make([]domain.Candidate, 0, len(order))
	for _, w := range order {
		candidates = append(candidates, domain.Candidate{Wallet: w, FlowNotional: flow[w]})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FlowNotional > candidates[j].FlowNotional
	})
	return truncate(candidates, max)
}
