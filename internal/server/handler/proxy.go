package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Edge caching directives matching what the SPA's serverless proxy set:
// short shared cache, long stale-while-revalidate tail.
const proxyCacheControl = "s-maxage=15, stale-while-revalidate=120"

// ProxyHandler is a pass-through proxy in front of the Polymarket public
// feed, kept so browser clients avoid CORS. Query strings forward verbatim;
// upstream status and content type are copied back unchanged.
type ProxyHandler struct {
	client   *http.Client
	dataHost string
	gamma    string
	logger   *slog.Logger
}

// NewProxyHandler creates a ProxyHandler targeting the given upstream hosts.
func NewProxyHandler(dataHost, gammaHost string, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		client:   &http.Client{Timeout: 15 * time.Second},
		dataHost: dataHost,
		gamma:    gammaHost,
		logger:   logger,
	}
}

// Trades proxies the trade feed.
// /proxy/trades
func (h *ProxyHandler) Trades(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.dataHost+"/trades")
}

// Positions proxies the position feed.
// /proxy/positions
func (h *ProxyHandler) Positions(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.dataHost+"/positions")
}

// Markets proxies the Gamma market catalogue.
// /proxy/markets
func (h *ProxyHandler) Markets(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.gamma+"/markets")
}

// forward relays a GET to the upstream URL with the request's query string
// attached verbatim. OPTIONS answers the CORS preflight; everything else is
// rejected.
func (h *ProxyHandler) forward(w http.ResponseWriter, r *http.Request, upstream string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	target := upstream
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "proxy request build failed")
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("proxy upstream request failed",
			slog.String("upstream", upstream),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Cache-Control", proxyCacheControl)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Warn("proxy response copy failed", slog.String("error", err.Error()))
	}
}
