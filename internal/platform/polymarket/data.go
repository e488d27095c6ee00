// Package polymarket provides read-only REST clients for the public
// Polymarket data and Gamma APIs.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alphatape/tapeboard/internal/domain"
)

// errBodyLimit caps how much of an upstream error body is carried in the
// returned error for diagnostics.
const errBodyLimit = 160

// DataClient is the REST client for the Polymarket data API, which serves
// public trades and per-wallet position snapshots.
type DataClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDataClient creates a new data API client.
//
// baseURL is the data API root, e.g. "https://data-api.polymarket.com".
func NewDataClient(baseURL string) *DataClient {
	return &DataClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetTrades returns public trades, newest-first. The server's ordering is
// preserved; the client never re-sorts. Zero-valued query fields are
// omitted from the request.
func (d *DataClient) GetTrades(ctx context.Context, q domain.TradeQuery) ([]domain.Trade, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.User != "" {
		params.Set("user", q.User)
	}
	if q.Market != "" {
		params.Set("market", q.Market)
	}
	if q.Side != "" {
		params.Set("side", string(q.Side))
	}
	if q.FilterType != "" {
		params.Set("filterType", string(q.FilterType))
		params.Set("filterAmount", strconv.FormatFloat(q.FilterAmount, 'f', -1, 64))
	}

	body, err := d.doGet(ctx, "/trades", params)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: get trades: %w", err)
	}

	var apiTrades []APITrade
	if err := json.Unmarshal(body, &apiTrades); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode trades: %w", err)
	}

	trades := make([]domain.Trade, 0, len(apiTrades))
	for i := range apiTrades {
		trades = append(trades, apiTrades[i].ToDomainTrade())
	}
	return trades, nil
}

// GetPositions returns position snapshots for the wallet in q.User.
func (d *DataClient) GetPositions(ctx context.Context, q domain.PositionQuery) ([]domain.Position, error) {
	if q.User == "" {
		return nil, fmt.Errorf("polymarket/data: get positions: user is required")
	}

	params := url.Values{}
	params.Set("user", q.User)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.SortDirection != "" {
		params.Set("sortDirection", string(q.SortDirection))
	}
	if q.SizeThreshold > 0 {
		params.Set("sizeThreshold", strconv.FormatFloat(q.SizeThreshold, 'f', -1, 64))
	}

	body, err := d.doGet(ctx, "/positions", params)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: get positions for %s: %w", q.User, err)
	}

	var apiPositions []APIPosition
	if err := json.Unmarshal(body, &apiPositions); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode positions: %w", err)
	}

	positions := make([]domain.Position, 0, len(apiPositions))
	for i := range apiPositions {
		positions = append(positions, apiPositions[i].ToDomainPosition())
	}
	return positions, nil
}

// doGet sends an unauthenticated GET request to the data API.
func (d *DataClient) doGet(ctx context.Context, path string, params url.Values) ([]byte, error) {
	target := d.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to appropriate domain errors.
// The body is truncated so a large upstream error page does not balloon
// logs or client payloads.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	if len(bodyStr) > errBodyLimit {
		bodyStr = bodyStr[:errBodyLimit]
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("HTTP %d: %w: %s", statusCode, domain.ErrNotFound, bodyStr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("HTTP %d: %w: %s", statusCode, domain.ErrUnauthorized, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("HTTP %d: %w: %s", statusCode, domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
