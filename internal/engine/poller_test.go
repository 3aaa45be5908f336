package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhe/vigil/internal/collector"
	"github.com/tonhe/vigil/internal/metric"
)

// fakeCollector returns scripted results in sequence, repeating the last
// one once the script is exhausted.
type fakeCollector struct {
	name    string
	script  []collector.Result
	calls   int
	delay   time.Duration
	panicOn int // 1-based call number that panics; 0 disables
}

func (f *fakeCollector) Name() string { return f.name }
func (f *fakeCollector) URL() string  { return "fake://" + f.name }
func (f *fakeCollector) Close() error { return nil }

func (f *fakeCollector) Collect(ctx context.Context) collector.Result {
	f.calls++
	if f.panicOn != 0 && f.calls == f.panicOn {
		panic("scripted failure")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return collector.Result{Err: ctx.Err().Error()}
		}
	}
	idx := f.calls - 1
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	return f.script[idx]
}

func newTestPoller(coll collector.Collector, store *StatusStore, warnings *WarningTracker) *Poller {
	var polls atomic.Int64
	return newPoller(coll, "", 5*time.Second, store, warnings, &polls)
}

func ok(metrics ...metric.Metric) collector.Result {
	return collector.Result{Metrics: metrics}
}

func fail(msg string) collector.Result {
	return collector.Result{Err: msg}
}

func TestPollerStickyWarningAcrossRecovery(t *testing.T) {
	store := NewStatusStore()
	warnings := NewWarningTracker()
	coll := &fakeCollector{name: "X", script: []collector.Result{
		fail("connection refused"),
		fail("connection refused"),
		ok(metric.Metric{Key: "rps", Label: "RPS", Value: 10.0}),
	}}
	p := newTestPoller(coll, store, warnings)

	ctx := context.Background()
	p.pollOnce(ctx)
	snap, _ := store.SnapshotAll().Get("X")
	assert.Equal(t, "connection refused", snap.Err)
	assert.True(t, snap.HadError)

	p.pollOnce(ctx)
	p.pollOnce(ctx)
	snap, _ = store.SnapshotAll().Get("X")
	assert.Empty(t, snap.Err)
	assert.True(t, snap.HadError, "had_error stays sticky after recovery")
	require.Len(t, snap.Metrics, 1)
	assert.Equal(t, "rps", snap.Metrics[0].Key)
	assert.Equal(t, 10.0, snap.Metrics[0].Value)
	assert.Equal(t, metric.ColorGreen, snap.Metrics[0].Color)
}

func TestPollerNeverWarnedStaysClean(t *testing.T) {
	store := NewStatusStore()
	warnings := NewWarningTracker()
	p := newTestPoller(&fakeCollector{name: "Y", script: []collector.Result{
		ok(metric.Metric{Key: "up", Value: 1.0}),
	}}, store, warnings)

	for i := 0; i < 3; i++ {
		p.pollOnce(context.Background())
	}
	snap, _ := store.SnapshotAll().Get("Y")
	assert.False(t, snap.HadError)
}

func TestPollerSparklineBounded(t *testing.T) {
	store := NewStatusStore()
	p := newTestPoller(&fakeCollector{name: "X", script: []collector.Result{
		ok(metric.Metric{Key: "rps", Value: 1.0}),
	}}, store, NewWarningTracker())

	// One more poll than the history holds, with distinct values, to check
	// the oldest point is evicted.
	for i := 0; i < 61; i++ {
		p.decorate([]metric.Metric{{Key: "rps", Value: float64(i)}})
	}

	buf := p.history["rps"]
	require.NotNil(t, buf)
	window := buf.All()
	assert.Len(t, window, metric.MaxHistory)
	// The first recorded value (0) has been evicted.
	assert.Equal(t, 1.0, window[0])
	assert.Equal(t, 60.0, window[len(window)-1])
}

func TestPollerDecorateKeepsProvidedHistory(t *testing.T) {
	store := NewStatusStore()
	p := newTestPoller(&fakeCollector{name: "X"}, store, NewWarningTracker())

	long := make([]float64, 80)
	for i := range long {
		long[i] = float64(i)
	}
	out := p.decorate([]metric.Metric{{Key: "rps", Value: 79.0, Sparkline: long}})
	require.Len(t, out, 1)
	assert.Len(t, out[0].Sparkline, metric.MaxHistory)
	assert.Equal(t, 20.0, out[0].Sparkline[0], "oldest points trimmed off the front")
	assert.Equal(t, 79.0, out[0].Sparkline[len(out[0].Sparkline)-1])
}

func TestPollerDecorateSkipsTextMetrics(t *testing.T) {
	store := NewStatusStore()
	p := newTestPoller(&fakeCollector{name: "X"}, store, NewWarningTracker())

	out := p.decorate([]metric.Metric{{Key: "role", Value: "master"}})
	assert.Empty(t, out[0].Sparkline)
	assert.Equal(t, metric.ColorGreen, out[0].Color)
}

func TestPollerPartialResultKeepsMetricsAndError(t *testing.T) {
	store := NewStatusStore()
	warnings := NewWarningTracker()
	p := newTestPoller(&fakeCollector{name: "DB", script: []collector.Result{
		{
			Metrics: []metric.Metric{{Key: "active_connections", Value: int64(3)}},
			Err:     "Pending Jobs: relation does not exist",
		},
	}}, store, warnings)

	p.pollOnce(context.Background())
	snap, _ := store.SnapshotAll().Get("DB")
	assert.NotEmpty(t, snap.Err)
	require.Len(t, snap.Metrics, 1)
	assert.True(t, snap.HadError)
}

func TestPollerRecoversFromCollectorPanic(t *testing.T) {
	store := NewStatusStore()
	p := newTestPoller(&fakeCollector{
		name:    "X",
		script:  []collector.Result{ok()},
		panicOn: 1,
	}, store, NewWarningTracker())

	p.pollOnce(context.Background())
	snap, _ := store.SnapshotAll().Get("X")
	assert.Contains(t, snap.Err, "collector panic")

	// The loop keeps going on the next attempt.
	p.pollOnce(context.Background())
	snap, _ = store.SnapshotAll().Get("X")
	assert.Empty(t, snap.Err)
}

func TestPollerLastUpdatedMonotonic(t *testing.T) {
	store := NewStatusStore()
	p := newTestPoller(&fakeCollector{name: "X", script: []collector.Result{fail("down")}}, store, NewWarningTracker())

	p.pollOnce(context.Background())
	first, _ := store.SnapshotAll().Get("X")
	p.pollOnce(context.Background())
	second, _ := store.SnapshotAll().Get("X")
	assert.False(t, second.LastUpdated.Before(first.LastUpdated))
	assert.False(t, first.LastUpdated.IsZero(), "failed polls still stamp the attempt time")
}

func TestPollerSlowServerDoesNotBlockOthers(t *testing.T) {
	store := NewStatusStore()
	warnings := NewWarningTracker()
	var polls atomic.Int64

	slow := newPoller(&fakeCollector{
		name:   "slow",
		delay:  500 * time.Millisecond,
		script: []collector.Result{ok()},
	}, "", 50*time.Millisecond, store, warnings, &polls)
	fast := newPoller(&fakeCollector{
		name:   "fast",
		script: []collector.Result{ok(metric.Metric{Key: "v", Value: 1.0})},
	}, "", 20*time.Millisecond, store, warnings, &polls)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { slow.run(ctx); done <- struct{}{} }()
	go func() { fast.run(ctx); done <- struct{}{} }()

	require.Eventually(t, func() bool {
		snap, ok := store.SnapshotAll().Get("fast")
		return ok && !snap.Waiting
	}, 2*time.Second, 5*time.Millisecond, "fast server should publish while slow one is stuck")

	cancel()
	<-done
	<-done
}
