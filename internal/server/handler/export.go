package handler

import (
	"log/slog"
	"net/http"

	"github.com/alphatape/tapeboard/internal/service"
)

// ExportHandler triggers CSV exports of the current tape.
type ExportHandler struct {
	radar  *service.Radar
	export *service.Export
	logger *slog.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(radar *service.Radar, export *service.Export, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{radar: radar, export: export, logger: logger}
}

// Tape exports the current tape batch as CSV to blob storage and returns the
// object path.
// POST /api/export/tape
func (h *ExportHandler) Tape(w http.ResponseWriter, r *http.Request) {
	trades, err := h.radar.Batch(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	path, err := h.export.Tape(r.Context(), trades)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}
