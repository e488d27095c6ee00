package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/format"
	"github.com/alphatape/tapeboard/internal/service"
)

// WatchlistHandler serves the saved-markets watchlist.
type WatchlistHandler struct {
	watchlist *service.Watchlist
	logger    *slog.Logger
}

// NewWatchlistHandler creates a WatchlistHandler.
func NewWatchlistHandler(watchlist *service.Watchlist, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

// List returns the watchlist, newest-first.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.watchlist.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.WatchItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Add saves a market to the watchlist.
// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item domain.WatchItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ConditionID == "" {
		writeError(w, http.StatusBadRequest, "conditionId is required")
		return
	}

	if err := h.watchlist.Add(r.Context(), item); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// Remove deletes a market from the watchlist.
// DELETE /api/watchlist/{conditionId}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	conditionID := r.PathValue("conditionId")
	if conditionID == "" {
		writeError(w, http.StatusBadRequest, "conditionId is required")
		return
	}

	if err := h.watchlist.Remove(r.Context(), conditionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// CopyPortfolio saves every market a wallet currently holds.
// POST /api/watchlist/copy/{address}
func (h *WatchlistHandler) CopyPortfolio(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !format.IsWalletAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	added, err := h.watchlist.CopyPortfolio(r.Context(), address)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": added})
}
