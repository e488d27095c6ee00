package handler

import (
	"log/slog"
	"net/http"

	"github.com/alphatape/tapeboard/internal/format"
	"github.com/alphatape/tapeboard/internal/service"
)

// WalletHandler serves single-wallet lookups.
type WalletHandler struct {
	radar  *service.Radar
	logger *slog.Logger
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(radar *service.Radar, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{radar: radar, logger: logger}
}

// Lookup returns positions and recent trades for one wallet.
// GET /api/wallet/{address}
func (h *WalletHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !format.IsWalletAddress(address) {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	view, err := h.radar.Lookup(r.Context(), address)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
