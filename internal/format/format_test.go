package format

import (
	"math"
	"testing"
)

func TestUSD(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"millions", 1_500_000, "$1.50M"},
		{"thousands", 2_500, "$2.5k"},
		{"small", 42, "$42"},
		{"zero", 0, "$0"},
		{"exact million", 1_000_000, "$1.00M"},
		{"exact thousand", 1_000, "$1.0k"},
		{"just under thousand", 999.9, "$1000"},
		{"negative thousands", -2_500, "-$2.5k"},
		{"negative millions", -1_500_000, "-$1.50M"},
		{"nan", math.NaN(), "—"},
		{"positive inf", math.Inf(1), "—"},
		{"negative inf", math.Inf(-1), "—"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := USD(tt.in); got != tt.want {
				t.Errorf("USD(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShortAddress(t *testing.T) {
	const addr = "0x376818665bC6041fb2cb449cDa362Ed10a492e2e"

	tests := []struct {
		name  string
		addr  string
		chars int
		want  string
	}{
		{"default width", addr, 4, "0x3768…2e2e"},
		{"wide", addr, 5, "0x37681…92e2e"},
		{"zero falls back to default", addr, 0, "0x3768…2e2e"},
		{"too short to shorten", "0xabcd", 4, "0xabcd"},
		{"boundary length stays whole", "0x12345678", 4, "0x12345678"},
		{"empty", "", 4, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortAddress(tt.addr, tt.chars); got != tt.want {
				t.Errorf("ShortAddress(%q, %d) = %q, want %q", tt.addr, tt.chars, got, tt.want)
			}
		})
	}
}

func TestIsWalletAddress(t *testing.T) {
	if !IsWalletAddress("0x376818665bC6041fb2cb449cDa362Ed10a492e2e") {
		t.Error("expected valid address to pass")
	}
	for _, bad := range []string{"", "0x3768", "not-an-address", "0xZZ6818665bC6041fb2cb449cDa362Ed10a492e2e"} {
		if IsWalletAddress(bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestTimestamp(t *testing.T) {
	// 2024-03-01 12:30:00 UTC
	if got := Timestamp(1709296200); got != "2024-03-01 12:30 UTC" {
		t.Errorf("Timestamp = %q", got)
	}
	if got := Timestamp(0); got != "—" {
		t.Errorf("Timestamp(0) = %q, want placeholder", got)
	}
}

func TestExplorerURLs(t *testing.T) {
	if got := ExplorerTxURL(NetworkPolygon, "0xabc"); got != "https://polygonscan.com/tx/0xabc" {
		t.Errorf("polygon tx url = %q", got)
	}
	if got := ExplorerAddressURL(NetworkEthereum, "0xdef"); got != "https://etherscan.io/address/0xdef" {
		t.Errorf("ethereum address url = %q", got)
	}
	// Unknown networks fall back to polygon.
	if got := ExplorerTxURL(Network("base"), "0xabc"); got != "https://polygonscan.com/tx/0xabc" {
		t.Errorf("unknown network tx url = %q", got)
	}
	if got := ExplorerTxURL(NetworkPolygon, ""); got != "" {
		t.Errorf("empty hash should produce empty url, got %q", got)
	}
}
