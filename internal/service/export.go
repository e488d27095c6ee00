package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/tier"
)

// tapeCSVHeader is the column contract of tape exports. Leaderboard and
// spreadsheet tooling downstream depends on these exact names.
var tapeCSVHeader = []string{
	"timestamp", "side", "title", "outcome", "price", "size", "notional_usd", "wallet", "tx",
}

// Export uploads CSV snapshots of the current tape to blob storage. It is a
// pro-tier feature; without configured storage every export fails cleanly.
type Export struct {
	blob   domain.BlobWriter
	tiers  domain.TierStore
	logger *slog.Logger
}

// NewExport creates an Export service. blob may be nil when no object store
// is configured.
func NewExport(blob domain.BlobWriter, tiers domain.TierStore, logger *slog.Logger) *Export {
	return &Export{
		blob:   blob,
		tiers:  tiers,
		logger: logger.With(slog.String("component", "export")),
	}
}

// TapeCSV renders a trade batch in the export column contract.
func TapeCSV(trades []domain.Trade) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(tapeCSVHeader); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}
	for _, t := range trades {
		notional := ""
		if v := t.Notional(); v != 0 {
			notional = strconv.FormatFloat(v, 'f', -1, 64)
		}
		record := []string{
			strconv.FormatInt(t.Timestamp, 10),
			string(t.Side),
			t.Title,
			t.Outcome,
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatFloat(t.Size, 'f', -1, 64),
			notional,
			t.Wallet,
			t.TxHash,
		}
		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("export: write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("export: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Tape exports the given trade batch as a CSV object and returns its
// storage path.
func (e *Export) Tape(ctx context.Context, trades []domain.Trade) (string, error) {
	t, err := e.tiers.Tier(ctx)
	if err != nil {
		t = domain.TierFree
	}
	if !tier.PolicyFor(t).Features.Export {
		return "", fmt.Errorf("export: tape: %w", domain.ErrFeatureGated)
	}
	if e.blob == nil {
		return "", fmt.Errorf("export: tape: no blob storage configured")
	}

	data, err := TapeCSV(trades)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("tape/%s/%s.csv", time.Now().UTC().Format("2006-01-02"), uuid.NewString())
	if err := e.blob.Put(ctx, path, data, "text/csv; charset=utf-8"); err != nil {
		return "", fmt.Errorf("export: tape: %w", err)
	}

	e.logger.InfoContext(ctx, "exported tape snapshot",
		slog.String("path", path),
		slog.Int("rows", len(trades)),
	)
	return path, nil
}
