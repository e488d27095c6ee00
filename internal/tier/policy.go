// Package tier maps a subscription tier to the engine's numeric policy
// parameters and feature gates.
package tier

import (
	"time"

	"github.com/alphatape/tapeboard/internal/domain"
)

// Features are the boolean gates a tier unlocks.
type Features struct {
	Export       bool // CSV tape export
	Leaderboards bool // top-profitable-wallets leaderboard
	CopyTrading  bool // copy wallet portfolio into the watchlist
}

// Params is the complete engine parameter set for one tier.
type Params struct {
	// FetchLimit is the trade batch size requested from the feed.
	FetchLimit int
	// MinNotional is the CASH filter threshold applied upstream; paid tiers
	// lower it to see more of the tape.
	MinNotional float64
	// RefreshInterval drives proactive poll-cache refetches.
	RefreshInterval time.Duration
	// StaleTime is how long a cached batch stays fresh for reads.
	StaleTime time.Duration
	// VisibleRows caps the tape rows surfaced to the caller.
	VisibleRows int
	// CandidateWallets bounds phase-2 position fetches in the profitability
	// ranking; zero disables the leaderboard entirely.
	CandidateWallets int
	Features         Features
}

var policies = map[domain.Tier]Params{
	domain.TierFree: {
		FetchLimit:      80,
		MinNotional:     1000,
		RefreshInterval: 60 * time.Second,
		StaleTime:       20 * time.Second,
		VisibleRows:     15,
	},
	domain.TierPro: {
		FetchLimit:       250,
		MinNotional:      150,
		RefreshInterval:  20 * time.Second,
		StaleTime:        15 * time.Second,
		VisibleRows:      40,
		CandidateWallets: 10,
		Features: Features{
			Export:       true,
			Leaderboards: true,
		},
	},
	domain.TierTeam: {
		FetchLimit:       600,
		MinNotional:      150,
		RefreshInterval:  10 * time.Second,
		StaleTime:        10 * time.Second,
		VisibleRows:      40,
		CandidateWallets: 10,
		Features: Features{
			Export:       true,
			Leaderboards: true,
			CopyTrading:  true,
		},
	},
}

// PolicyFor returns the parameter set for the given tier. The lookup is
// total: unrecognized values fall back to the free tier, never an error.
func PolicyFor(t domain.Tier) Params {
	if p, ok := policies[t]; ok {
		return p
	}
	return policies[domain.TierFree]
}
