// Package web serves the browser dashboard: the status API consumed by the
// web UI, the warning-clear endpoint, a self-monitoring metrics endpoint,
// and any static assets.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tonhe/vigil/internal/engine"
)

const shutdownTimeout = 5 * time.Second

// Config holds the web server settings.
type Config struct {
	Listen    string // host:port
	StaticDir string // served at /; skipped when missing
}

// Server exposes the engine's aggregated state over HTTP. It never blocks
// on a collector: every handler reads point-in-time snapshots.
type Server struct {
	cfg    Config
	engine *engine.Engine
	logger *slog.Logger
}

// NewServer creates a Server for the given engine.
func NewServer(cfg Config, eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		engine: eng,
		logger: logger.With("component", "web"),
	}
}

// Mux builds the route table. Split out from Start for tests.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/clear-warnings", s.handleClearWarnings)
	mux.HandleFunc("GET /metrics", s.handleSelfMetrics)

	if s.cfg.StaticDir != "" {
		if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
		}
	}
	return mux
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.cfg.Listen, err)
	}

	srv := &http.Server{Handler: s.Mux()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info("web dashboard started", "listen", s.cfg.Listen, "lan_ip", LanIP())

	select {
	case err := <-errCh:
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("web dashboard shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
