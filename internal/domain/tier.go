package domain

// Tier is the subscription level gating refresh rate, row limits, and
// feature visibility. It is read by the engine, never computed.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
	TierTeam Tier = "team"
)

// ParseTier maps a stored tier string to a Tier, defaulting to free for
// unrecognized or empty values. It never fails.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierPro:
		return TierPro
	case TierTeam:
		return TierTeam
	default:
		return TierFree
	}
}

// AtLeastPro reports whether the tier unlocks the paid feature set.
func (t Tier) AtLeastPro() bool {
	return t == TierPro || t == TierTeam
}
