package tier

import (
	"testing"

	"github.com/alphatape/tapeboard/internal/domain"
)

func TestPolicyForIsTotal(t *testing.T) {
	free := PolicyFor(domain.TierFree)
	if free.FetchLimit == 0 || free.RefreshInterval == 0 || free.VisibleRows == 0 {
		t.Fatalf("free policy has zero parameters: %+v", free)
	}

	// Unknown tiers resolve to the free parameters, never a zero Params.
	unknown := PolicyFor(domain.Tier("enterprise"))
	if unknown != free {
		t.Errorf("unknown tier = %+v, want free policy %+v", unknown, free)
	}
}

func TestPolicyProgression(t *testing.T) {
	free := PolicyFor(domain.TierFree)
	pro := PolicyFor(domain.TierPro)
	team := PolicyFor(domain.TierTeam)

	if !(free.FetchLimit < pro.FetchLimit && pro.FetchLimit < team.FetchLimit) {
		t.Errorf("fetch limits not increasing: %d, %d, %d", free.FetchLimit, pro.FetchLimit, team.FetchLimit)
	}
	if !(free.MinNotional > pro.MinNotional) {
		t.Errorf("paid tiers should see a lower notional floor: free=%v pro=%v", free.MinNotional, pro.MinNotional)
	}
	if !(free.RefreshInterval > pro.RefreshInterval && pro.RefreshInterval > team.RefreshInterval) {
		t.Errorf("refresh intervals not tightening: %v, %v, %v", free.RefreshInterval, pro.RefreshInterval, team.RefreshInterval)
	}
}

func TestFeatureGates(t *testing.T) {
	free := PolicyFor(domain.TierFree)
	pro := PolicyFor(domain.TierPro)
	team := PolicyFor(domain.TierTeam)

	if free.Features.Export || free.Features.Leaderboards || free.Features.CopyTrading {
		t.Errorf("free tier should unlock nothing: %+v", free.Features)
	}
	if free.CandidateWallets != 0 {
		t.Errorf("free tier candidate budget = %d, want 0", free.CandidateWallets)
	}
	if !pro.Features.Export || !pro.Features.Leaderboards {
		t.Errorf("pro tier missing paid features: %+v", pro.Features)
	}
	if pro.Features.CopyTrading {
		t.Error("copy trading should be team-only")
	}
	if !team.Features.CopyTrading {
		t.Error("team tier should unlock copy trading")
	}
}
