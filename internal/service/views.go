package service

import (
	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/format"
	"github.com/alphatape/tapeboard/internal/poll"
	"github.com/alphatape/tapeboard/internal/tier"
)

// viewMeta carries the refresh state shared by every view payload. When a
// refresh failed, Error is set while the stale rows keep rendering.
type viewMeta struct {
	Tier      domain.Tier `json:"tier"`
	UpdatedAt int64       `json:"updatedAt,omitempty"` // unix seconds
	Fetching  bool        `json:"fetching"`
	Error     string      `json:"error,omitempty"`
}

func meta[T any](t domain.Tier, res poll.Result[T]) viewMeta {
	m := viewMeta{Tier: t, Fetching: res.Fetching}
	if !res.UpdatedAt.IsZero() {
		m.UpdatedAt = res.UpdatedAt.Unix()
	}
	if res.Err != nil {
		m.Error = res.Err.Error()
	}
	return m
}

// TapeEntry is one formatted tape row.
type TapeEntry struct {
	Side        domain.Side `json:"side"`
	Title       string      `json:"title"`
	Outcome     string      `json:"outcome"`
	Price       float64     `json:"price"`
	Size        float64     `json:"size"`
	Notional    float64     `json:"notional"`
	NotionalUSD string      `json:"notionalUsd"`
	Wallet      string      `json:"wallet"`
	WalletShort string      `json:"walletShort"`
	Time        string      `json:"time"`
	Timestamp   int64       `json:"timestamp"`
	TxHash      string      `json:"txHash,omitempty"`
	TxURL       string      `json:"txUrl,omitempty"`
}

// TapeView is the live tape payload.
type TapeView struct {
	viewMeta
	Rows []TapeEntry `json:"rows"`
}

func newTapeView(t domain.Tier, pol tier.Params, res poll.Result[[]domain.Trade]) TapeView {
	trades := res.Value
	if len(trades) > pol.VisibleRows {
		trades = trades[:pol.VisibleRows]
	}
	rows := make([]TapeEntry, 0, len(trades))
	for _, tr := range trades {
		rows = append(rows, TapeEntry{
			Side:        tr.Side,
			Title:       tr.Title,
			Outcome:     tr.Outcome,
			Price:       tr.Price,
			Size:        tr.Size,
			Notional:    tr.Notional(),
			NotionalUSD: format.USD(tr.Notional()),
			Wallet:      tr.Wallet,
			WalletShort: format.ShortAddress(tr.Wallet, format.DefaultAddressChars),
			Time:        format.Timestamp(tr.Timestamp),
			Timestamp:   tr.Timestamp,
			TxHash:      tr.TxHash,
			TxURL:       format.ExplorerTxURL(format.NetworkPolygon, tr.TxHash),
		})
	}
	return TapeView{viewMeta: meta(t, res), Rows: rows}
}

// MarketFlowRow is one hot-markets radar row.
type MarketFlowRow struct {
	Rank        int         `json:"rank"`
	ConditionID string      `json:"conditionId"`
	Slug        string      `json:"slug,omitempty"`
	Title       string      `json:"title,omitempty"`
	Trades      int         `json:"trades"`
	Notional    float64     `json:"notional"`
	NotionalUSD string      `json:"notionalUsd"`
	LastPrice   float64     `json:"lastPrice"`
	LastSide    domain.Side `json:"lastSide"`
}

// MarketFlowView is the hot-markets radar payload.
type MarketFlowView struct {
	viewMeta
	Rows []MarketFlowRow `json:"rows"`
}

func newMarketFlowView(t domain.Tier, flows []domain.MarketFlow, res poll.Result[[]domain.Trade]) MarketFlowView {
	rows := make([]MarketFlowRow, 0, len(flows))
	for _, f := range flows {
		rows = append(rows, MarketFlowRow{
			Rank:        f.Rank,
			ConditionID: f.ConditionID,
			Slug:        f.Slug,
			Title:       f.Title,
			Trades:      f.TradeCount,
			Notional:    f.TotalNotional,
			NotionalUSD: format.USD(f.TotalNotional),
			LastPrice:   f.LastPrice,
			LastSide:    f.LastSide,
		})
	}
	return MarketFlowView{viewMeta: meta(t, res), Rows: rows}
}

// WalletFlowRow is one whale-wallet radar row.
type WalletFlowRow struct {
	Rank        int     `json:"rank"`
	Wallet      string  `json:"wallet"`
	WalletShort string  `json:"walletShort"`
	ScanURL     string  `json:"scanUrl"`
	Trades      int     `json:"trades"`
	Notional    float64 `json:"notional"`
	NotionalUSD string  `json:"notionalUsd"`
	LastSeen    string  `json:"lastSeen"`
}

// WalletFlowView is the whale-wallet radar payload.
type WalletFlowView struct {
	viewMeta
	Rows []WalletFlowRow `json:"rows"`
}

func newWalletFlowView(t domain.Tier, flows []domain.WalletFlow, res poll.Result[[]domain.Trade]) WalletFlowView {
	rows := make([]WalletFlowRow, 0, len(flows))
	for _, f := range flows {
		rows = append(rows, WalletFlowRow{
			Rank:        f.Rank,
			Wallet:      f.Wallet,
			WalletShort: format.ShortAddress(f.Wallet, 5),
			ScanURL:     format.ExplorerAddressURL(format.NetworkPolygon, f.Wallet),
			Trades:      f.TradeCount,
			Notional:    f.TotalNotional,
			NotionalUSD: format.USD(f.TotalNotional),
			LastSeen:    format.Timestamp(f.LastTimestamp),
		})
	}
	return WalletFlowView{viewMeta: meta(t, res), Rows: rows}
}

// PerformanceRow is one top-profitable-wallets row.
type PerformanceRow struct {
	Rank         int     `json:"rank"`
	Wallet       string  `json:"wallet"`
	WalletShort  string  `json:"walletShort"`
	ScanURL      string  `json:"scanUrl"`
	CashPnl      float64 `json:"cashPnl"`
	CashPnlUSD   string  `json:"cashPnlUsd"`
	RealizedPnl  float64 `json:"realizedPnl"`
	FlowNotional float64 `json:"flowNotional"`
	FlowUSD      string  `json:"flowUsd"`
	Positions    int     `json:"positions"`
}

// PerformanceView is the top-profitable-wallets payload.
type PerformanceView struct {
	viewMeta
	Window Window           `json:"window"`
	Rows   []PerformanceRow `json:"rows"`
}

func newPerformanceView(t domain.Tier, w Window, res poll.Result[[]domain.WalletPerformance]) PerformanceView {
	rows := make([]PerformanceRow, 0, len(res.Value))
	for _, p := range res.Value {
		rows = append(rows, PerformanceRow{
			Rank:         p.Rank,
			Wallet:       p.Wallet,
			WalletShort:  format.ShortAddress(p.Wallet, 5),
			ScanURL:      format.ExplorerAddressURL(format.NetworkPolygon, p.Wallet),
			CashPnl:      p.CashPnl,
			CashPnlUSD:   format.USD(p.CashPnl),
			RealizedPnl:  p.RealizedPnl,
			FlowNotional: p.FlowNotional,
			FlowUSD:      format.USD(p.FlowNotional),
			Positions:    p.Positions,
		})
	}
	return PerformanceView{viewMeta: meta(t, res), Window: w, Rows: rows}
}

// LookupView is the wallet-lookup payload: positions plus recent trades.
type LookupView struct {
	viewMeta
	Wallet      string            `json:"wallet"`
	WalletShort string            `json:"walletShort"`
	ScanURL     string            `json:"scanUrl"`
	Positions   []domain.Position `json:"positions"`
	Trades      []TapeEntry       `json:"trades"`
}

func newLookupView(t domain.Tier, res poll.Result[domain.WalletActivity]) LookupView {
	act := res.Value
	trades := make([]TapeEntry, 0, len(act.Trades))
	for _, tr := range act.Trades {
		trades = append(trades, TapeEntry{
			Side:        tr.Side,
			Title:       tr.Title,
			Outcome:     tr.Outcome,
			Price:       tr.Price,
			Size:        tr.Size,
			Notional:    tr.Notional(),
			NotionalUSD: format.USD(tr.Notional()),
			Wallet:      tr.Wallet,
			WalletShort: format.ShortAddress(tr.Wallet, format.DefaultAddressChars),
			Time:        format.Timestamp(tr.Timestamp),
			Timestamp:   tr.Timestamp,
			TxHash:      tr.TxHash,
			TxURL:       format.ExplorerTxURL(format.NetworkPolygon, tr.TxHash),
		})
	}
	return LookupView{
		viewMeta:    meta(t, res),
		Wallet:      act.Wallet,
		WalletShort: format.ShortAddress(act.Wallet, 5),
		ScanURL:     format.ExplorerAddressURL(format.NetworkPolygon, act.Wallet),
		Positions:   act.Positions,
		Trades:      trades,
	}
}
