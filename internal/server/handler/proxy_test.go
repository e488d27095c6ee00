package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProxyForwardsQueryVerbatim(t *testing.T) {
	var gotPath, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`[{"ok":true}]`))
	}))
	defer upstream.Close()

	h := NewProxyHandler(upstream.URL, upstream.URL, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/proxy/trades?limit=80&filterType=CASH&filterAmount=1000", nil)
	rec := httptest.NewRecorder()
	h.Trades(rec, req)

	assert.Equal(t, "/trades", gotPath)
	assert.Equal(t, "limit=80&filterType=CASH&filterAmount=1000", gotQuery)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"ok":true}]`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "s-maxage=15, stale-while-revalidate=120", rec.Header().Get("Cache-Control"))
}

func TestProxyCopiesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer upstream.Close()

	h := NewProxyHandler(upstream.URL, upstream.URL, testLogger())

	rec := httptest.NewRecorder()
	h.Positions(rec, httptest.NewRequest(http.MethodGet, "/proxy/positions?user=0xabc", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, `{"error":"rate limited"}`, rec.Body.String())
}

func TestProxyPreflight(t *testing.T) {
	h := NewProxyHandler("http://unused.invalid", "http://unused.invalid", testLogger())

	rec := httptest.NewRecorder()
	h.Markets(rec, httptest.NewRequest(http.MethodOptions, "/proxy/markets", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestProxyRejectsNonGet(t *testing.T) {
	h := NewProxyHandler("http://unused.invalid", "http://unused.invalid", testLogger())

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		h.Trades(rec, httptest.NewRequest(method, "/proxy/trades", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
}

func TestProxyUpstreamUnreachable(t *testing.T) {
	h := NewProxyHandler("http://127.0.0.1:1", "http://127.0.0.1:1", testLogger())

	rec := httptest.NewRecorder()
	h.Trades(rec, httptest.NewRequest(http.MethodGet, "/proxy/trades", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
