package domain

import "math"

// Side is the taker direction of a trade as reported by the data API.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is a single public trade event from the Polymarket data API.
// Trades are immutable; batches arrive newest-first and the server order is
// preserved throughout the engine.
type Trade struct {
	Wallet       string  // proxy wallet of the trader
	Side         Side
	Asset        string  // outcome token id
	ConditionID  string  // market identifier
	Size         float64 // outcome-token quantity
	Price        float64 // 0..1, probability-denominated
	Timestamp    int64   // unix seconds
	TxHash       string
	Title        string
	Slug         string
	EventSlug    string
	Outcome      string
	OutcomeIndex int
	Name         string
	Pseudonym    string
}

// Notional approximates the USD value moved by the trade (size * price).
// A non-finite product contributes zero so NaN never leaks into aggregates;
// the trade itself still counts toward trade-count metrics.
func (t Trade) Notional() float64 {
	v := t.Size * t.Price
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
