package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/service"
	"github.com/alphatape/tapeboard/internal/store/memory"
)

type stubPositions struct {
	positions []domain.Position
}

func (s *stubPositions) GetPositions(ctx context.Context, q domain.PositionQuery) ([]domain.Position, error) {
	return s.positions, nil
}

func newWatchlistFixture(t *testing.T, tier domain.Tier, positions []domain.Position) (*WatchlistHandler, domain.WatchlistStore) {
	t.Helper()
	store := memory.NewWatchlistStore()
	tiers := memory.NewTierStore()
	require.NoError(t, tiers.SetTier(context.Background(), tier))
	svc := service.NewWatchlist(store, &stubPositions{positions: positions}, tiers, memory.NewSignalBus(), testLogger())
	return NewWatchlistHandler(svc, testLogger()), store
}

func TestWatchlistAddListRemove(t *testing.T) {
	h, _ := newWatchlistFixture(t, domain.TierFree, nil)

	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest(http.MethodPost, "/api/watchlist",
		strings.NewReader(`{"conditionId":"cid-1","slug":"will-it","question":"Will it?"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []domain.WatchItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "cid-1", body.Items[0].ConditionID)
	assert.NotZero(t, body.Items[0].AddedAt)

	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist/cid-1", nil)
	req.SetPathValue("conditionId", "cid-1")
	rec = httptest.NewRecorder()
	h.Remove(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Items)
}

func TestWatchlistAddRequiresConditionID(t *testing.T) {
	h, _ := newWatchlistFixture(t, domain.TierFree, nil)

	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(`{"slug":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCopyPortfolioGatedToTeam(t *testing.T) {
	const wallet = "0x376818665bC6041fb2cb449cDa362Ed10a492e2e"
	positions := []domain.Position{
		{ConditionID: "cid-1", Slug: "market-one", Title: "Market One"},
		{ConditionID: "cid-2", Slug: "market-two"},
	}

	// Pro tier lacks copy trading.
	h, _ := newWatchlistFixture(t, domain.TierPro, positions)
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist/copy/"+wallet, nil)
	req.SetPathValue("address", wallet)
	rec := httptest.NewRecorder()
	h.CopyPortfolio(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Team tier copies every market once.
	h, store := newWatchlistFixture(t, domain.TierTeam, positions)
	req = httptest.NewRequest(http.MethodPost, "/api/watchlist/copy/"+wallet, nil)
	req.SetPathValue("address", wallet)
	rec = httptest.NewRecorder()
	h.CopyPortfolio(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Added int `json:"added"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Added)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// Copying again adds nothing.
	req = httptest.NewRequest(http.MethodPost, "/api/watchlist/copy/"+wallet, nil)
	req.SetPathValue("address", wallet)
	rec = httptest.NewRecorder()
	h.CopyPortfolio(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Added)
}

func TestCopyPortfolioRejectsBadAddress(t *testing.T) {
	h, _ := newWatchlistFixture(t, domain.TierTeam, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist/copy/garbage", nil)
	req.SetPathValue("address", "garbage")
	rec := httptest.NewRecorder()
	h.CopyPortfolio(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWalletLookupRejectsBadAddress(t *testing.T) {
	h := NewWalletHandler(nil, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/wallet/garbage", nil)
	req.SetPathValue("address", "garbage")
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
