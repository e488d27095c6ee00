package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/tier"
)

// TierHandler reads and updates the active subscription tier. The tier flag
// is client-trusted; there is no entitlement check behind it.
type TierHandler struct {
	tiers  domain.TierStore
	logger *slog.Logger
}

// NewTierHandler creates a TierHandler.
func NewTierHandler(tiers domain.TierStore, logger *slog.Logger) *TierHandler {
	return &TierHandler{tiers: tiers, logger: logger}
}

// tierResponse is the wire shape of the active tier and its parameters.
type tierResponse struct {
	Tier   domain.Tier `json:"tier"`
	Params tier.Params `json:"params"`
}

// Get returns the active tier and its policy parameters.
// GET /api/tier
func (h *TierHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tiers.Tier(r.Context())
	if err != nil {
		t = domain.TierFree
	}
	writeJSON(w, http.StatusOK, tierResponse{Tier: t, Params: tier.PolicyFor(t)})
}

// Set updates the active tier. Unknown tier names are rejected rather than
// silently normalized to free.
// PUT /api/tier
func (h *TierHandler) Set(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch domain.Tier(body.Tier) {
	case domain.TierFree, domain.TierPro, domain.TierTeam:
	default:
		writeError(w, http.StatusBadRequest, "tier must be one of free, pro, team")
		return
	}
	t := domain.ParseTier(body.Tier)

	if err := h.tiers.SetTier(r.Context(), t); err != nil {
		writeServiceError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "tier updated", slog.String("tier", string(t)))
	writeJSON(w, http.StatusOK, tierResponse{Tier: t, Params: tier.PolicyFor(t)})
}
