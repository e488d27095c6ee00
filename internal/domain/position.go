package domain

// Position is a point-in-time snapshot of one wallet x market x outcome
// holding as returned by the data API. Snapshots are never merged across
// fetches; a new fetch replaces the previous one wholesale.
type Position struct {
	Wallet             string
	ConditionID        string
	Size               float64
	AvgPrice           float64
	CurPrice           float64
	InitialValue       float64
	CurrentValue       float64
	CashPnl            float64
	PercentPnl         float64
	RealizedPnl        float64
	PercentRealizedPnl float64
	Redeemable         bool
	Title              string
	Slug               string
	Outcome            string
	EventSlug          string
	EndDate            string
}
