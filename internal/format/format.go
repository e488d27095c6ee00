// Package format holds the display-formatting contracts shared by the API
// payloads and the headless tape output.
package format

import (
	"fmt"
	"math"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// DefaultAddressChars is the prefix/suffix width used when shortening
// wallet addresses for display.
const DefaultAddressChars = 4

// USD renders a value in the compact leaderboard style:
// >= 1M as "$X.XXM", >= 1k as "$X.Xk", otherwise whole dollars. Negative
// values keep the sign in front of the dollar symbol. Non-finite input
// renders as an em dash placeholder.
func USD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.2fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fk", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// ShortAddress keeps the "0x" prefix plus chars leading characters and chars
// trailing characters joined by an ellipsis. Addresses too short to shorten
// are returned whole. The full address stays available to callers for
// copy/verify actions; this is display-only.
func ShortAddress(addr string, chars int) string {
	if addr == "" {
		return ""
	}
	if chars <= 0 {
		chars = DefaultAddressChars
	}
	// Runes, not bytes: the ellipsis check must not split multibyte input.
	r := []rune(addr)
	if len(r) <= 2*chars+2 {
		return addr
	}
	return string(r[:2+chars]) + "…" + string(r[len(r)-chars:])
}

// IsWalletAddress reports whether s looks like a valid hex wallet address.
func IsWalletAddress(s string) bool {
	return ethcommon.IsHexAddress(s)
}

// Timestamp renders a unix-seconds timestamp as "YYYY-MM-DD HH:MM UTC".
// Zero renders as a placeholder.
func Timestamp(ts int64) string {
	if ts == 0 {
		return "—"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04") + " UTC"
}
