// Package collector implements the metric collectors for each supported
// server kind. A collector converts every internal failure into Result.Err;
// Collect never returns a Go error and never panics by contract (the poll
// loop adds a recover as a safety net regardless).
package collector

import (
	"context"
	"fmt"

	"github.com/tonhe/vigil/internal/config"
	"github.com/tonhe/vigil/internal/metric"
)

// Result is the outcome of one collection attempt. Err empty means success;
// Err set with a non-empty Metrics slice means a partial result (postgres
// custom queries can fail individually).
type Result struct {
	Metrics []metric.Metric
	Err     string

	// Postgres fills these from the server itself.
	Version   string
	UptimeSec int64
}

// errResult builds a failed Result with no metrics.
func errResult(format string, args ...any) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}

// Collector fetches the current metrics for one configured server. Each
// collector owns its connection handles exclusively; instances are never
// shared across poll loops.
type Collector interface {
	Name() string
	URL() string
	Collect(ctx context.Context) Result
	Close() error
}

// New builds the collector for a server config. Adding a server kind means
// adding a case here; the poll loop is kind-agnostic.
func New(cfg config.ServerConfig) (Collector, error) {
	switch cfg.Kind {
	case config.KindHTTP:
		return NewHTTP(cfg.Name, cfg.MetricsEndpoint), nil
	case config.KindRedis:
		return NewRedis(cfg.Name, cfg.Host, cfg.Port), nil
	case config.KindPostgres:
		return NewPostgres(cfg), nil
	}
	return nil, fmt.Errorf("collector: unknown server type %q for %q", cfg.Kind, cfg.Name)
}
