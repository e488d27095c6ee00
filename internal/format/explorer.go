package format

// Network identifies the chain whose block explorer a link should target.
type Network string

const (
	NetworkPolygon  Network = "polygon"
	NetworkEthereum Network = "ethereum"
)

// explorerBase maps each known network to its explorer root. Polymarket
// settles on Polygon, so that is the safe default for anything unrecognized.
var explorerBase = map[Network]string{
	NetworkPolygon:  "https://polygonscan.com",
	NetworkEthereum: "https://etherscan.io",
}

func baseFor(n Network) string {
	if base, ok := explorerBase[n]; ok {
		return base
	}
	return explorerBase[NetworkPolygon]
}

// ExplorerTxURL returns the explorer link for a transaction hash, or empty
// when there is no hash to link.
func ExplorerTxURL(n Network, txHash string) string {
	if txHash == "" {
		return ""
	}
	return baseFor(n) + "/tx/" + txHash
}

// ExplorerAddressURL returns the explorer link for a wallet address.
func ExplorerAddressURL(n Network, addr string) string {
	if addr == "" {
		return ""
	}
	return baseFor(n) + "/address/" + addr
}
