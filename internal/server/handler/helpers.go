// Package handler contains the HTTP handlers for the tapeboard API and the
// Polymarket pass-through proxy.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alphatape/tapeboard/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain sentinel errors to HTTP status codes and
// writes the error response. Unknown errors become 502: the upstream feed is
// the usual culprit when a service call fails.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrFeatureGated):
		writeError(w, http.StatusForbidden, "feature not available on current tier")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "upstream rate limited")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "upstream rejected request")
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// queryInt reads an integer query parameter, returning def when absent or
// unparseable.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
