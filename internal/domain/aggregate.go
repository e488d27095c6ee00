package domain

// MarketFlow is a per-market rollup of recent tape activity. Rows are
// rebuilt from scratch on every refresh; there is no cross-fetch memory.
type MarketFlow struct {
	ConditionID   string
	Slug          string
	Title         string
	TradeCount    int
	TotalNotional float64
	LastPrice     float64 // price of the newest trade seen for this market
	LastSide      Side
	Rank          int
}

// WalletFlow is a per-wallet rollup of recent tape activity.
type WalletFlow struct {
	Wallet        string
	TradeCount    int
	TotalNotional float64
	LastTimestamp int64
	Rank          int
}

// Candidate is a wallet surfaced by the cheap tape aggregation, pending the
// per-wallet position enrichment fetch.
type Candidate struct {
	Wallet       string
	FlowNotional float64
}

// WalletPerformance is a ranked wallet row in the top-profitable leaderboard:
// a candidate enriched with PnL sums over its current positions.
type WalletPerformance struct {
	Wallet       string
	FlowNotional float64
	CashPnl      float64
	RealizedPnl  float64
	InitialValue float64
	Positions    int
	Rank         int
}

// WalletActivity is the wallet-lookup view: current positions plus the most
// recent trades for one wallet.
type WalletActivity struct {
	Wallet    string
	Positions []Position
	Trades    []Trade
}
