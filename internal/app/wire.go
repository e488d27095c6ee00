package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alphatape/tapeboard/internal/blob/s3"
	"github.com/alphatape/tapeboard/internal/config"
	"github.com/alphatape/tapeboard/internal/domain"
	"github.com/alphatape/tapeboard/internal/platform/polymarket"
	"github.com/alphatape/tapeboard/internal/service"
	"github.com/alphatape/tapeboard/internal/store/memory"
	redisstore "github.com/alphatape/tapeboard/internal/store/redis"
	"github.com/alphatape/tapeboard/internal/tier"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	// Feed clients
	Data  *polymarket.DataClient
	Gamma *polymarket.GammaClient

	// Stores and bus
	TierStore      domain.TierStore
	WatchlistStore domain.WatchlistStore
	SignalBus      domain.SignalBus

	// Blob storage; nil when no bucket is configured.
	BlobWriter domain.BlobWriter

	// Services
	Radar     *service.Radar
	Watchlist *service.Watchlist
	Export    *service.Export
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Data:  polymarket.NewDataClient(cfg.Feed.DataHost),
		Gamma: polymarket.NewGammaClient(cfg.Feed.GammaHost),
	}

	// --- Stores: redis when configured, in-memory otherwise ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redisstore.New(ctx, redisstore.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.TierStore = redisstore.NewTierStore(redisClient)
		deps.WatchlistStore = redisstore.NewWatchlistStore(redisClient)
		deps.SignalBus = redisstore.NewSignalBus(redisClient)
	} else {
		deps.TierStore = memory.NewTierStore()
		deps.WatchlistStore = memory.NewWatchlistStore()
		deps.SignalBus = memory.NewSignalBus()
	}

	// --- S3 blob storage (optional; exports stay disabled without it) ---
	if cfg.S3.Bucket != "" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })
		deps.BlobWriter = s3blob.NewWriter(s3Client)
	}

	// --- Services ---
	// Cache cadence follows the tier at startup; batch parameters re-resolve
	// per request.
	startTier, err := deps.TierStore.Tier(ctx)
	if err != nil {
		startTier = domain.TierFree
	}
	pol := tier.PolicyFor(startTier)

	deps.Radar = service.NewRadar(deps.Data, deps.Data, deps.Gamma, deps.TierStore, deps.SignalBus, pol, logger)
	deps.Watchlist = service.NewWatchlist(deps.WatchlistStore, deps.Data, deps.TierStore, deps.SignalBus, logger)
	deps.Export = service.NewExport(deps.BlobWriter, deps.TierStore, logger)

	return deps, cleanup, nil
}
