package collector

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tonhe/vigil/internal/metric"
)

const redisTimeout = 3 * time.Second

// RedisCollector polls a Redis instance with INFO and extracts a fixed
// metric set: clients, memory, throughput, keyspace hit rate, and role.
type RedisCollector struct {
	name   string
	addr   string
	client *redis.Client
}

func NewRedis(name, host string, port int) *RedisCollector {
	addr := fmt.Sprintf("%s:%d", host, port)
	return &RedisCollector{
		name: name,
		addr: addr,
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			DialTimeout:  redisTimeout,
			ReadTimeout:  redisTimeout,
			WriteTimeout: redisTimeout,
		}),
	}
}

func (c *RedisCollector) Name() string { return c.name }
func (c *RedisCollector) URL() string  { return c.addr }
func (c *RedisCollector) Close() error { return c.client.Close() }

func (c *RedisCollector) Collect(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	raw, err := c.client.Info(ctx).Result()
	if err != nil {
		return errResult("%v", err)
	}
	return Result{Metrics: redisMetrics(parseInfo(raw))}
}

// parseInfo splits the INFO reply into a key/value map. Section headers
// ("# Memory") and blank lines are skipped.
func parseInfo(raw string) map[string]string {
	info := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		info[k] = v
	}
	return info
}

// redisMetrics maps INFO fields onto the fixed metric set.
func redisMetrics(info map[string]string) []metric.Metric {
	metrics := []metric.Metric{
		{
			Key:       "connected_clients",
			Label:     "Connected Clients",
			Value:     infoInt(info, "connected_clients"),
			Unit:      "clients",
			WarnAbove: metric.Threshold(100),
		},
		{
			Key:       "used_memory_mb",
			Label:     "Memory Used",
			Value:     roundMB(infoInt(info, "used_memory")),
			Unit:      "MB",
			WarnAbove: metric.Threshold(512),
		},
		{
			Key:   "used_memory_peak_mb",
			Label: "Memory Peak",
			Value: roundMB(infoInt(info, "used_memory_peak")),
			Unit:  "MB",
		},
		{
			Key:   "ops_per_sec",
			Label: "Ops/sec",
			Value: infoInt(info, "instantaneous_ops_per_sec"),
			Unit:  "ops/s",
		},
		{
			Key:   "total_connections",
			Label: "Total Connections",
			Value: infoInt(info, "total_connections_received"),
			Unit:  "count",
		},
		{
			Key:   "keyspace_hits",
			Label: "Keyspace Hits",
			Value: infoInt(info, "keyspace_hits"),
			Unit:  "count",
		},
		{
			Key:   "keyspace_misses",
			Label: "Keyspace Misses",
			Value: infoInt(info, "keyspace_misses"),
			Unit:  "count",
		},
	}

	hits := infoInt(info, "keyspace_hits")
	misses := infoInt(info, "keyspace_misses")
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = round1(float64(hits) / float64(total) * 100)
	}
	metrics = append(metrics, metric.Metric{
		Key:       "hit_rate",
		Label:     "Hit Rate",
		Value:     hitRate,
		Unit:      "%",
		WarnBelow: metric.Threshold(90),
	})

	role := info["role"]
	if role == "" {
		role = "unknown"
	}
	metrics = append(metrics, metric.Metric{
		Key:   "role",
		Label: "Role",
		Value: role,
	})

	return metrics
}

func infoInt(info map[string]string, key string) int64 {
	n, err := strconv.ParseInt(info[key], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func roundMB(bytes int64) float64 {
	return round1(float64(bytes) / (1 << 20))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

var _ Collector = (*RedisCollector)(nil)
