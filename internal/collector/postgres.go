package collector

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tonhe/vigil/internal/config"
	"github.com/tonhe/vigil/internal/metric"
)

const pgTimeout = 5 * time.Second

const pgStatQuery = `SELECT
	numbackends,
	xact_commit,
	xact_rollback,
	blks_read,
	blks_hit,
	deadlocks,
	temp_files
FROM pg_stat_database
WHERE datname = current_database()`

// PostgresCollector polls pg_stat_* system views and any configured custom
// queries. Custom queries run on their own cadences through a QueryCache;
// a failing query is reported in Result.Err without dropping the rest.
type PostgresCollector struct {
	name        string
	displayURL  string
	systemStats bool
	queries     []config.QuerySpec
	cache       *QueryCache
	pool        *pgxpool.Pool
	initErr     error
}

func NewPostgres(cfg config.ServerConfig) *PostgresCollector {
	c := &PostgresCollector{
		name:        cfg.Name,
		displayURL:  cfg.URL(),
		systemStats: cfg.WantSystemStats(),
		queries:     cfg.Queries,
		cache:       NewQueryCache(),
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		c.initErr = fmt.Errorf("parse dsn: %w", err)
		return c
	}
	poolCfg.ConnConfig.ConnectTimeout = pgTimeout
	// Connections are established lazily, so an unreachable server shows
	// up as a poll error rather than a startup failure.
	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		c.initErr = err
		return c
	}
	c.pool = pool
	return c
}

func (c *PostgresCollector) Name() string { return c.name }
func (c *PostgresCollector) URL() string  { return c.displayURL }

func (c *PostgresCollector) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

func (c *PostgresCollector) Collect(ctx context.Context) Result {
	if c.initErr != nil {
		return errResult("%v", c.initErr)
	}

	ctx, cancel := context.WithTimeout(ctx, pgTimeout)
	defer cancel()

	var (
		res  Result
		errs []string
	)

	if c.systemStats {
		metrics, version, uptime, err := c.collectSystemStats(ctx)
		if err != nil {
			// A failed system-stats pass with nothing else configured is a
			// plain collector failure.
			if len(c.queries) == 0 {
				return errResult("%v", err)
			}
			errs = append(errs, err.Error())
		} else {
			res.Metrics = append(res.Metrics, metrics...)
			res.Version = version
			res.UptimeSec = uptime
		}
	}

	for _, q := range c.queries {
		m, err := c.cache.GetOrRefresh(q.Label, q.PollEvery(), func() (metric.Metric, error) {
			return c.runQuery(ctx, q)
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", q.Label, err))
			continue
		}
		res.Metrics = append(res.Metrics, m)
	}

	res.Err = strings.Join(errs, "; ")
	return res
}

// collectSystemStats reads pg_stat_database plus version, uptime, and
// database size for the connected database.
func (c *PostgresCollector) collectSystemStats(ctx context.Context) ([]metric.Metric, string, int64, error) {
	var (
		backends, commits, rollbacks int64
		blksRead, blksHit            int64
		deadlocks, tempFiles         int64
	)
	row := c.pool.QueryRow(ctx, pgStatQuery)
	if err := row.Scan(&backends, &commits, &rollbacks, &blksRead, &blksHit, &deadlocks, &tempFiles); err != nil {
		return nil, "", 0, fmt.Errorf("pg_stat_database: %w", err)
	}

	var version string
	if err := c.pool.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		return nil, "", 0, fmt.Errorf("server_version: %w", err)
	}

	var uptime int64
	if err := c.pool.QueryRow(ctx,
		"SELECT EXTRACT(EPOCH FROM (now() - pg_postmaster_start_time()))::bigint",
	).Scan(&uptime); err != nil {
		return nil, "", 0, fmt.Errorf("uptime: %w", err)
	}

	var dbSize int64
	if err := c.pool.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSize); err != nil {
		return nil, "", 0, fmt.Errorf("database size: %w", err)
	}

	return systemMetrics(backends, commits, rollbacks, blksRead, blksHit, deadlocks, tempFiles, dbSize), version, uptime, nil
}

// systemMetrics maps raw pg_stat_database counters onto metrics with the
// standard thresholds.
func systemMetrics(backends, commits, rollbacks, blksRead, blksHit, deadlocks, tempFiles, dbSize int64) []metric.Metric {
	// 100% when no blocks have been touched yet.
	hitRate := 100.0
	if total := blksHit + blksRead; total > 0 {
		hitRate = round2(float64(blksHit) / float64(total) * 100)
	}

	return []metric.Metric{
		{
			Key:       "active_connections",
			Label:     "Active Connections",
			Value:     backends,
			Unit:      "conns",
			WarnAbove: metric.Threshold(50),
		},
		{
			Key:   "transactions_committed",
			Label: "Txn Committed",
			Value: commits,
			Unit:  "count",
		},
		{
			Key:       "transactions_rolled_back",
			Label:     "Txn Rolled Back",
			Value:     rollbacks,
			Unit:      "count",
			WarnAbove: metric.Threshold(100),
		},
		{
			Key:       "cache_hit_rate",
			Label:     "Cache Hit Rate",
			Value:     hitRate,
			Unit:      "%",
			WarnBelow: metric.Threshold(99),
		},
		{
			Key:       "deadlocks",
			Label:     "Deadlocks",
			Value:     deadlocks,
			Unit:      "count",
			WarnAbove: metric.Threshold(0),
		},
		{
			Key:       "temp_files",
			Label:     "Temp Files",
			Value:     tempFiles,
			Unit:      "count",
			WarnAbove: metric.Threshold(100),
		},
		{
			Key:   "db_size_mb",
			Label: "Database Size",
			Value: roundMB(dbSize),
			Unit:  "MB",
		},
	}
}

// runQuery executes one custom query, which must return exactly one row
// containing a "value" column (first column when none is named "value").
func (c *PostgresCollector) runQuery(ctx context.Context, q config.QuerySpec) (metric.Metric, error) {
	rows, err := c.pool.Query(ctx, q.SQL)
	if err != nil {
		return metric.Metric{}, err
	}
	defer rows.Close()

	valueIdx := 0
	for i, fd := range rows.FieldDescriptions() {
		if fd.Name == "value" {
			valueIdx = i
			break
		}
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return metric.Metric{}, err
		}
		return metric.Metric{}, fmt.Errorf("no rows returned")
	}
	values, err := rows.Values()
	if err != nil {
		return metric.Metric{}, err
	}
	if rows.Next() {
		return metric.Metric{}, fmt.Errorf("expected one row, got more")
	}
	if err := rows.Err(); err != nil {
		return metric.Metric{}, err
	}
	if valueIdx >= len(values) {
		return metric.Metric{}, fmt.Errorf("no value column")
	}

	return queryMetric(q, normalizeValue(values[valueIdx])), nil
}

// queryMetric builds the metric for a custom query result.
func queryMetric(q config.QuerySpec, value any) metric.Metric {
	return metric.Metric{
		Key:       keyFromLabel(q.Label),
		Label:     q.Label,
		Value:     value,
		Unit:      "count",
		Color:     q.Color,
		WarnAbove: q.WarnAbove,
		WarnBelow: q.WarnBelow,
	}
}

// keyFromLabel derives a stable metric key from a query label:
// "Pending Jobs (24h)" -> "pending_jobs_24h".
func keyFromLabel(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return s
}

// normalizeValue converts pgx row values into the plain types the rest of
// the system understands.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case []byte:
		return string(n)
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err == nil && f.Valid {
			return f.Float64
		}
		return 0.0
	default:
		return v
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ Collector = (*PostgresCollector)(nil)
