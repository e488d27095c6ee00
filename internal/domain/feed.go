package domain

import "context"

// FilterType selects whether a trade threshold applies to notional value
// (CASH) or raw token size (TOKENS).
type FilterType string

const (
	FilterCash   FilterType = "CASH"
	FilterTokens FilterType = "TOKENS"
)

// SortDirection orders position listings.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// TradeQuery parameterizes a trades fetch. Zero values are omitted from the
// request, never sent as empty strings.
type TradeQuery struct {
	Limit        int
	Offset       int
	User         string
	Market       string
	Side         Side
	FilterType   FilterType
	FilterAmount float64
}

// PositionQuery parameterizes a positions fetch. User is required.
type PositionQuery struct {
	User          string
	Limit         int
	Offset        int
	SortBy        string // e.g. "CASHPNL", "CURRENT"
	SortDirection SortDirection
	SizeThreshold float64 // excludes dust positions below this size
}

// MarketQuery parameterizes a markets fetch. Active and Closed are tri-state
// so that an unset filter is omitted from the request.
type MarketQuery struct {
	Limit    int
	Offset   int
	Active   *bool
	Closed   *bool
	Category string
}

// TradeFeed reads public trades, newest-first, server order preserved.
type TradeFeed interface {
	GetTrades(ctx context.Context, q TradeQuery) ([]Trade, error)
}

// PositionFeed reads position snapshots for a wallet.
type PositionFeed interface {
	GetPositions(ctx context.Context, q PositionQuery) ([]Position, error)
}

// MarketFeed reads market metadata.
type MarketFeed interface {
	GetMarkets(ctx context.Context, q MarketQuery) ([]Market, error)
}
