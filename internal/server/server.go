// Package server exposes the tapeboard HTTP API, the Polymarket pass-through
// proxy, and the WebSocket hub.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alphatape/tapeboard/internal/server/handler"
	"github.com/alphatape/tapeboard/internal/server/middleware"
	"github.com/alphatape/tapeboard/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
}

// Handlers aggregates all HTTP handlers that the server needs to register.
// Nil optional handlers (Export when storage is unconfigured) skip their
// routes.
type Handlers struct {
	Health    *handler.HealthHandler
	Radar     *handler.RadarHandler
	Wallet    *handler.WalletHandler
	Watchlist *handler.WatchlistHandler
	Tier      *handler.TierHandler
	Export    *handler.ExportHandler
	Proxy     *handler.ProxyHandler
}

// Server is the HTTP + WebSocket front of the tapeboard backend.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered on the ServeMux and
// the logging + CORS middleware applied.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	if handlers.Radar != nil {
		mux.HandleFunc("GET /api/tape", handlers.Radar.Tape)
		mux.HandleFunc("GET /api/radar/markets", handlers.Radar.HotMarkets)
		mux.HandleFunc("GET /api/radar/wallets", handlers.Radar.WhaleWallets)
		mux.HandleFunc("GET /api/leaderboard/wallets", handlers.Radar.TopWallets)
		mux.HandleFunc("GET /api/markets/trending", handlers.Radar.TrendingMarkets)
	}

	if handlers.Wallet != nil {
		mux.HandleFunc("GET /api/wallet/{address}", handlers.Wallet.Lookup)
	}

	if handlers.Watchlist != nil {
		mux.HandleFunc("GET /api/watchlist", handlers.Watchlist.List)
		mux.HandleFunc("POST /api/watchlist", handlers.Watchlist.Add)
		mux.HandleFunc("DELETE /api/watchlist/{conditionId}", handlers.Watchlist.Remove)
		mux.HandleFunc("POST /api/watchlist/copy/{address}", handlers.Watchlist.CopyPortfolio)
	}

	if handlers.Tier != nil {
		mux.HandleFunc("GET /api/tier", handlers.Tier.Get)
		mux.HandleFunc("PUT /api/tier", handlers.Tier.Set)
	}

	if handlers.Export != nil {
		mux.HandleFunc("POST /api/export/tape", handlers.Export.Tape)
	}

	// The proxy sets its own CORS and cache headers, so it registers for all
	// methods and does its own method dispatch.
	if handlers.Proxy != nil {
		mux.HandleFunc("/proxy/trades", handlers.Proxy.Trades)
		mux.HandleFunc("/proxy/positions", handlers.Proxy.Positions)
		mux.HandleFunc("/proxy/markets", handlers.Proxy.Markets)
	}

	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
