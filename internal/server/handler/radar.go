package handler

import (
	"log/slog"
	"net/http"

	"github.com/alphatape/tapeboard/internal/service"
)

// RadarHandler serves the tape, the market/wallet radars, and the
// profitability leaderboard.
type RadarHandler struct {
	radar  *service.Radar
	logger *slog.Logger
}

// NewRadarHandler creates a RadarHandler.
func NewRadarHandler(radar *service.Radar, logger *slog.Logger) *RadarHandler {
	return &RadarHandler{radar: radar, logger: logger}
}

// Tape returns the live tape for the current tier.
// GET /api/tape
func (h *RadarHandler) Tape(w http.ResponseWriter, r *http.Request) {
	view, err := h.radar.Tape(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HotMarkets returns the per-market flow rollup of the current batch.
// GET /api/radar/markets
func (h *RadarHandler) HotMarkets(w http.ResponseWriter, r *http.Request) {
	view, err := h.radar.HotMarkets(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// WhaleWallets returns the per-wallet flow rollup of the current batch.
// GET /api/radar/wallets
func (h *RadarHandler) WhaleWallets(w http.ResponseWriter, r *http.Request) {
	view, err := h.radar.WhaleWallets(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// TopWallets returns the windowed profitability leaderboard.
// GET /api/leaderboard/wallets?window=1d|7d|30d
func (h *RadarHandler) TopWallets(w http.ResponseWriter, r *http.Request) {
	window := service.Window(r.URL.Query().Get("window"))
	switch window {
	case service.Window1d, service.Window7d, service.Window30d:
	case "":
		window = service.Window1d
	default:
		writeError(w, http.StatusBadRequest, "window must be one of 1d, 7d, 30d")
		return
	}

	view, err := h.radar.TopWallets(r.Context(), window)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// TrendingMarkets returns active markets from the Gamma feed.
// GET /api/markets/trending
func (h *RadarHandler) TrendingMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.radar.TrendingMarkets(r.Context(), queryInt(r, "limit", 30))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"markets": markets})
}
