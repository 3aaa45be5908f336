package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhe/vigil/internal/metric"
)

func TestHTTPCollectorSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metrics":[
			{"key":"rps","label":"Requests/sec","value":42.5,"unit":"req/s"},
			{"key":"mem","label":"Memory","value":600,"unit":"MB","warn_above":512}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTP("api", srv.URL)
	res := c.Collect(context.Background())

	require.Empty(t, res.Err)
	require.Len(t, res.Metrics, 2)
	assert.Equal(t, "rps", res.Metrics[0].Key)
	assert.Equal(t, 42.5, res.Metrics[0].Value)

	mem := res.Metrics[1]
	require.NotNil(t, mem.WarnAbove)
	assert.Equal(t, 512.0, *mem.WarnAbove)
	// 600 > 512 must evaluate red.
	assert.Equal(t, metric.ColorRed, metric.ColorFor(mem))
}

func TestHTTPCollectorEmptyMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	res := NewHTTP("api", srv.URL).Collect(context.Background())
	assert.Empty(t, res.Err)
	assert.NotNil(t, res.Metrics)
	assert.Empty(t, res.Metrics)
}

func TestHTTPCollectorNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := NewHTTP("api", srv.URL).Collect(context.Background())
	assert.Contains(t, res.Err, "500")
	assert.Empty(t, res.Metrics)
}

func TestHTTPCollectorMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metrics": [`))
	}))
	defer srv.Close()

	res := NewHTTP("api", srv.URL).Collect(context.Background())
	assert.Contains(t, res.Err, "invalid metrics payload")
	assert.Empty(t, res.Metrics)
}

func TestHTTPCollectorMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metrics":[{"label":"No Key","value":1}]}`))
	}))
	defer srv.Close()

	res := NewHTTP("api", srv.URL).Collect(context.Background())
	assert.NotEmpty(t, res.Err)
	assert.Empty(t, res.Metrics)
}

func TestHTTPCollectorConnectionRefused(t *testing.T) {
	// Grab a port that is guaranteed closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := NewHTTP("api", url).Collect(context.Background())
	assert.NotEmpty(t, res.Err)
	assert.Empty(t, res.Metrics)
}

func TestHTTPCollectorContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewHTTP("api", srv.URL).Collect(ctx)
	assert.NotEmpty(t, res.Err)
}
