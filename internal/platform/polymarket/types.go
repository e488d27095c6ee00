package polymarket

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/alphatape/tapeboard/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number or a numeric string. Missing,
// null, or malformed values decode to 0 so the engine never sees NaN from
// the wire.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(sanitize(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(sanitize(n))
	return nil
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// --------------------------------------------------------------------------
// Data API DTOs
// --------------------------------------------------------------------------

// APITrade represents a trade as returned by the Polymarket data API.
type APITrade struct {
	ProxyWallet     string    `json:"proxyWallet"`
	Side            string    `json:"side"` // "BUY" or "SELL"
	Asset           string    `json:"asset"`
	ConditionID     string    `json:"conditionId"`
	Size            flexFloat `json:"size"`
	Price           flexFloat `json:"price"`
	Timestamp       int64     `json:"timestamp"` // unix seconds
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	EventSlug       string    `json:"eventSlug"`
	Outcome         string    `json:"outcome"`
	OutcomeIndex    int       `json:"outcomeIndex"`
	Name            string    `json:"name"`
	Pseudonym       string    `json:"pseudonym"`
	TransactionHash string    `json:"transactionHash"`
}

// ToDomainTrade converts an APITrade to a domain.Trade.
func (t *APITrade) ToDomainTrade() domain.Trade {
	return domain.Trade{
		Wallet:       t.ProxyWallet,
		Side:         domain.Side(t.Side),
		Asset:        t.Asset,
		ConditionID:  t.ConditionID,
		Size:         float64(t.Size),
		Price:        float64(t.Price),
		Timestamp:    t.Timestamp,
		TxHash:       t.TransactionHash,
		Title:        t.Title,
		Slug:         t.Slug,
		EventSlug:    t.EventSlug,
		Outcome:      t.Outcome,
		OutcomeIndex: t.OutcomeIndex,
		Name:         t.Name,
		Pseudonym:    t.Pseudonym,
	}
}

// APIPosition represents a position snapshot as returned by the data API.
type APIPosition struct {
	ProxyWallet        string    `json:"proxyWallet"`
	ConditionID        string    `json:"conditionId"`
	Size               flexFloat `json:"size"`
	AvgPrice           flexFloat `json:"avgPrice"`
	InitialValue       flexFloat `json:"initialValue"`
	CurrentValue       flexFloat `json:"currentValue"`
	CashPnl            flexFloat `json:"cashPnl"`
	PercentPnl         flexFloat `json:"percentPnl"`
	RealizedPnl        flexFloat `json:"realizedPnl"`
	PercentRealizedPnl flexFloat `json:"percentRealizedPnl"`
	CurPrice           flexFloat `json:"curPrice"`
	Redeemable         bool      `json:"redeemable"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	EventSlug          string    `json:"eventSlug"`
	Outcome            string    `json:"outcome"`
	EndDate            string    `json:"endDate"`
}

// ToDomainPosition converts an APIPosition to a domain.Position.
func (p *APIPosition) ToDomainPosition() domain.Position {
	return domain.Position{
		Wallet:             p.ProxyWallet,
		ConditionID:        p.ConditionID,
		Size:               float64(p.Size),
		AvgPrice:           float64(p.AvgPrice),
		CurPrice:           float64(p.CurPrice),
		InitialValue:       float64(p.InitialValue),
		CurrentValue:       float64(p.CurrentValue),
		CashPnl:            float64(p.CashPnl),
		PercentPnl:         float64(p.PercentPnl),
		RealizedPnl:        float64(p.RealizedPnl),
		PercentRealizedPnl: float64(p.PercentRealizedPnl),
		Redeemable:         p.Redeemable,
		Title:              p.Title,
		Slug:               p.Slug,
		EventSlug:          p.EventSlug,
		Outcome:            p.Outcome,
		EndDate:            p.EndDate,
	}
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// APIMarket represents a market as returned by the Polymarket Gamma API.
type APIMarket struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	ConditionID   string    `json:"conditionId"`
	Slug          string    `json:"slug"`
	Active        flexBool  `json:"active"` // API may send bool or "true"/"false" string
	Closed        flexBool  `json:"closed"`
	Outcomes      string    `json:"outcomes"`      // JSON-encoded: e.g. "[\"Yes\",\"No\"]"
	OutcomePrices string    `json:"outcomePrices"` // JSON-encoded: e.g. "[\"0.5\",\"0.5\"]"
	Volume        flexFloat `json:"volume"`
	Category      string    `json:"category"`
	EndDate       string    `json:"endDate"`
}

// ToDomainMarket converts an APIMarket to a domain.Market, decoding the
// JSON-encoded outcome and price lists. Malformed lists decode to empty
// slices rather than failing the batch.
func (m *APIMarket) ToDomainMarket() domain.Market {
	var outcomes []string
	_ = json.Unmarshal([]byte(m.Outcomes), &outcomes)

	var rawPrices []string
	_ = json.Unmarshal([]byte(m.OutcomePrices), &rawPrices)
	prices := make([]float64, 0, len(rawPrices))
	for _, rp := range rawPrices {
		p, err := strconv.ParseFloat(rp, 64)
		if err != nil {
			p = 0
		}
		prices = append(prices, sanitize(p))
	}

	return domain.Market{
		ID:            m.ID,
		Question:      m.Question,
		ConditionID:   m.ConditionID,
		Slug:          m.Slug,
		Outcomes:      outcomes,
		OutcomePrices: prices,
		Volume:        float64(m.Volume),
		Active:        bool(m.Active),
		Closed:        bool(m.Closed),
		Category:      m.Category,
		EndDate:       m.EndDate,
	}
}
