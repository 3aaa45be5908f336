// Package engine contains the collector scheduling and status-aggregation
// core: one independently-scheduled poll loop per server, the shared
// snapshot store, and the sticky warning tracker.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tonhe/vigil/internal/collector"
	"github.com/tonhe/vigil/internal/config"
)

// Engine owns one Poller per configured server plus the StatusStore and
// WarningTracker they all share. Renderers talk only to the Engine.
type Engine struct {
	store      *StatusStore
	warnings   *WarningTracker
	pollers    []*Poller
	collectors []collector.Collector
	logger     *slog.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	started   bool
	startedAt time.Time
	polls     atomic.Int64
}

// New builds an Engine for the configured servers. Each server gets its
// collector and poll loop; the store is seeded with a waiting snapshot per
// server so renderers can draw immediately. Construction failures are
// fatal by design — once running, nothing is.
func New(servers []config.ServerConfig, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		store:    NewStatusStore(),
		warnings: NewWarningTracker(),
		logger:   logger.With("component", "engine"),
	}

	for _, srv := range servers {
		coll, err := collector.New(srv)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.collectors = append(e.collectors, coll)
		e.store.Seed(&ServerSnapshot{
			Name:      srv.Name,
			URL:       srv.URL(),
			WebURL:    srv.WebURL,
			PollEvery: srv.PollEvery(),
		})
		e.pollers = append(e.pollers, newPoller(coll, srv.WebURL, srv.PollEvery(), e.store, e.warnings, &e.polls))
	}
	return e, nil
}

// Start launches every poll loop. Loops run until Stop is called.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.startedAt = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	for _, p := range e.pollers {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			p.run(ctx)
		}()
	}
	e.logger.Info("polling started", "servers", len(e.pollers))
}

// Stop cancels all poll loops, waits for them to exit, and releases every
// collector's connections. In-flight collects are cut off by the
// cancellation and surface as ordinary poll errors.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	e.started = false
	e.cancel()
	e.wg.Wait()
	for _, c := range e.collectors {
		if err := c.Close(); err != nil {
			e.logger.Warn("collector close failed", "server", c.Name(), "error", err)
		}
	}
	e.logger.Info("polling stopped")
}

// Snapshot returns a consistent point-in-time view of all servers.
func (e *Engine) Snapshot() DashboardState {
	return e.store.SnapshotAll()
}

// ClearWarnings resets every server's sticky had_error flag.
func (e *Engine) ClearWarnings() {
	e.store.ClearWarnings(e.warnings)
}

// PollNow nudges every poll loop to collect immediately.
func (e *Engine) PollNow() {
	for _, p := range e.pollers {
		p.PollNow()
	}
}

// SetLanIP records the LAN address reported alongside snapshots.
func (e *Engine) SetLanIP(ip string) {
	e.store.SetLanIP(ip)
}

// Servers returns the number of configured servers.
func (e *Engine) Servers() int {
	return len(e.pollers)
}

// Uptime reports how long the engine has been running.
func (e *Engine) Uptime() time.Duration {
	if e.startedAt.IsZero() {
		return 0
	}
	return time.Since(e.startedAt)
}

// TotalPolls reports the number of poll attempts across all servers.
func (e *Engine) TotalPolls() int64 {
	return e.polls.Load()
}
