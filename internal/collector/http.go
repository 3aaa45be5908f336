package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/tonhe/vigil/internal/metric"
)

const httpTimeout = 5 * time.Second

// maxMetricsBody bounds how much of a metrics response is read.
const maxMetricsBody = 1 << 20

// HTTPCollector polls a custom server exposing GET <endpoint> in the
// metrics contract shape: {"metrics": [...]}.
type HTTPCollector struct {
	name     string
	endpoint string
	client   *http.Client
}

func NewHTTP(name, endpoint string) *HTTPCollector {
	return &HTTPCollector{
		name:     name,
		endpoint: endpoint,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

func (c *HTTPCollector) Name() string { return c.name }
func (c *HTTPCollector) URL() string  { return c.endpoint }
func (c *HTTPCollector) Close() error { return nil }

type metricsPayload struct {
	Metrics []metric.Metric `json:"metrics"`
}

// Collect issues a bounded-timeout GET and parses the response. Any
// transport failure, non-2xx status, or malformed body becomes Result.Err.
func (c *HTTPCollector) Collect(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return errResult("bad endpoint: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errResult("%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errResult("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetricsBody))
	if err != nil {
		return errResult("read response: %v", err)
	}

	var payload metricsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return errResult("invalid metrics payload: %v", err)
	}

	metrics := payload.Metrics
	for i := range metrics {
		if metrics[i].Key == "" {
			return errResult("invalid metrics payload: metric %d has no key", i)
		}
	}
	if metrics == nil {
		metrics = []metric.Metric{}
	}
	return Result{Metrics: metrics}
}

var _ Collector = (*HTTPCollector)(nil)
