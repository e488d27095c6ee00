package engine

import (
	"math"
	"testing"

	"github.com/alphatape/tapeboard/internal/domain"
)

// Three trades across two markets and two wallets, newest-first the way the
// feed delivers them.
func sampleBatch() []domain.Trade {
	return []domain.Trade{
		{Wallet: "0xaaa", ConditionID: "market-a", Title: "Market A", Side: domain.SideBuy, Size: 1000, Price: 0.50, Timestamp: 300},
		{Wallet: "0xbbb", ConditionID: "market-b", Title: "Market B", Side: domain.SideSell, Size: 600, Price: 0.30, Timestamp: 200},
		{Wallet: "0xaaa", ConditionID: "market-a", Title: "Market A", Side: domain.SideSell, Size: 500, Price: 0.40, Timestamp: 100},
	}
}

func TestMarketFlowsGrouping(t *testing.T) {
	flows := MarketFlows(sampleBatch())
	if len(flows) != 2 {
		t.Fatalf("got %d market rows, want 2", len(flows))
	}

	a := flows[0]
	if a.ConditionID != "market-a" {
		t.Fatalf("top market = %s, want market-a", a.ConditionID)
	}
	if a.Rank != 1 {
		t.Errorf("rank = %d, want 1", a.Rank)
	}
	if a.TradeCount != 2 {
		t.Errorf("market-a trade count = %d, want 2", a.TradeCount)
	}
	if math.Abs(a.TotalNotional-700) > 1e-9 {
		t.Errorf("market-a notional = %v, want 700", a.TotalNotional)
	}
	// The newest (first-seen) trade carries the last price and side.
	if a.LastPrice != 0.50 || a.LastSide != domain.SideBuy {
		t.Errorf("market-a last price/side = %v/%s, want 0.50/BUY", a.LastPrice, a.LastSide)
	}

	b := flows[1]
	if b.ConditionID != "market-b" || b.Rank != 2 {
		t.Fatalf("second row = %s rank %d, want market-b rank 2", b.ConditionID, b.Rank)
	}
	if b.TradeCount != 1 || math.Abs(b.TotalNotional-180) > 1e-9 {
		t.Errorf("market-b = %d trades / %v notional, want 1 / 180", b.TradeCount, b.TotalNotional)
	}
}

func TestWalletFlowsConservation(t *testing.T) {
	batch := sampleBatch()
	flows := WalletFlows(batch)

	var gotTrades int
	var gotNotional float64
	for _, f := range flows {
		gotTrades += f.TradeCount
		gotNotional += f.TotalNotional
	}

	var wantNotional float64
	for _, tr := range batch {
		wantNotional += tr.Notional()
	}
	if gotTrades != len(batch) {
		t.Errorf("trade count across rows = %d, want %d", gotTrades, len(batch))
	}
	if math.Abs(gotNotional-wantNotional) > 1e-9 {
		t.Errorf("notional across rows = %v, want %v", gotNotional, wantNotional)
	}
}

func TestFlowsSkipEmptyKeys(t *testing.T) {
	batch := []domain.Trade{
		{Wallet: "", ConditionID: "", Size: 100, Price: 0.5},
		{Wallet: "0xaaa", ConditionID: "market-a", Size: 10, Price: 0.5},
	}
	if got := MarketFlows(batch); len(got) != 1 {
		t.Errorf("market rows = %d, want 1", len(got))
	}
	if got := WalletFlows(batch); len(got) != 1 {
		t.Errorf("wallet rows = %d, want 1", len(got))
	}
}

func TestNonFiniteNotionalCountsAsZero(t *testing.T) {
	batch := []domain.Trade{
		{Wallet: "0xaaa", ConditionID: "market-a", Size: math.Inf(1), Price: 1},
		{Wallet: "0xaaa", ConditionID: "market-a", Size: 10, Price: 0.5},
	}
	flows := MarketFlows(batch)
	if len(flows) != 1 {
		t.Fatalf("rows = %d, want 1", len(flows))
	}
	// The bad trade still counts, but contributes zero notional.
	if flows[0].TradeCount != 2 {
		t.Errorf("trade count = %d, want 2", flows[0].TradeCount)
	}
	if flows[0].TotalNotional != 5 {
		t.Errorf("notional = %v, want 5", flows[0].TotalNotional)
	}
}

func TestMarketFlowsTopN(t *testing.T) {
	var batch []domain.Trade
	for i := 0; i < 15; i++ {
		batch = append(batch, domain.Trade{
			ConditionID: string(rune('a' + i)),
			Size:        float64(15 - i),
			Price:       1,
		})
	}
	flows := MarketFlows(batch)
	if len(flows) != LeaderboardSize {
		t.Fatalf("rows = %d, want %d", len(flows), LeaderboardSize)
	}
	for i := 1; i < len(flows); i++ {
		if flows[i].TotalNotional > flows[i-1].TotalNotional {
			t.Fatalf("rows not sorted descending at %d", i)
		}
		if flows[i].Rank != i+1 {
			t.Fatalf("rank at %d = %d", i, flows[i].Rank)
		}
	}
}

func TestMarketFlowsStableOnTies(t *testing.T) {
	// Equal notionals keep first-grouped-first order.
	batch := []domain.Trade{
		{ConditionID: "first", Size: 10, Price: 0.5},
		{ConditionID: "second", Size: 10, Price: 0.5},
		{ConditionID: "third", Size: 10, Price: 0.5},
	}
	flows := MarketFlows(batch)
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if flows[i].ConditionID != id {
			t.Fatalf("row %d = %s, want %s", i, flows[i].ConditionID, id)
		}
	}
}
