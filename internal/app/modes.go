package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alphatape/tapeboard/internal/server"
	"github.com/alphatape/tapeboard/internal/server/handler"
	"github.com/alphatape/tapeboard/internal/server/ws"
)

// shutdownGrace bounds how long in-flight requests may run after the context
// is cancelled.
const shutdownGrace = 10 * time.Second

// ServeMode runs the full backend: HTTP API, feed proxy, WebSocket hub, and
// the proactive poll loops.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	hub := ws.NewHub(deps.SignalBus, a.logger)
	srv := a.buildServer(deps, hub, true)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.runServer(ctx, srv)
	})

	g.Go(func() error {
		err := hub.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		err := deps.Radar.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}

// ProxyMode serves only the pass-through feed proxy and the health check.
func (a *App) ProxyMode(ctx context.Context, deps *Dependencies) error {
	srv := a.buildServer(deps, nil, false)
	return a.runServer(ctx, srv)
}

// TapeMode polls the tape headlessly and logs each rollup, for running the
// radar without a dashboard attached.
func (a *App) TapeMode(ctx context.Context, deps *Dependencies) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := deps.Radar.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				view, err := deps.Radar.Tape(ctx)
				if err != nil {
					a.logger.Warn("tape poll failed", slog.String("error", err.Error()))
					continue
				}
				age := int64(-1)
				if view.UpdatedAt > 0 {
					age = time.Now().Unix() - view.UpdatedAt
				}
				a.logger.InfoContext(ctx, "tape",
					slog.Int("rows", len(view.Rows)),
					slog.String("tier", string(view.Tier)),
					slog.Int64("age_seconds", age),
					slog.Bool("fetching", view.Fetching),
				)
			}
		}
	})

	return g.Wait()
}

// buildServer assembles the HTTP server for the given mode. The API handlers
// are only mounted when api is true; the proxy and health check are always
// available.
func (a *App) buildServer(deps *Dependencies, hub *ws.Hub, api bool) *server.Server {
	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Proxy:  handler.NewProxyHandler(a.cfg.Feed.DataHost, a.cfg.Feed.GammaHost, a.logger),
	}
	if api {
		handlers.Radar = handler.NewRadarHandler(deps.Radar, a.logger)
		handlers.Wallet = handler.NewWalletHandler(deps.Radar, a.logger)
		handlers.Watchlist = handler.NewWatchlistHandler(deps.Watchlist, a.logger)
		handlers.Tier = handler.NewTierHandler(deps.TierStore, a.logger)
		if deps.BlobWriter != nil {
			handlers.Export = handler.NewExportHandler(deps.Radar, deps.Export, a.logger)
		}
	}

	return server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, handlers, hub, a.logger)
}

// runServer starts srv and shuts it down gracefully when ctx is cancelled.
func (a *App) runServer(ctx context.Context, srv *server.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
