package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tonhe/vigil/internal/collector"
	"github.com/tonhe/vigil/internal/metric"
)

// Poller runs the polling loop for a single server. Each server gets its
// own Poller goroutine, so a slow or dead dependency can never stall the
// others. All mutable state except the store and the warning tracker is
// owned by this loop exclusively.
type Poller struct {
	coll     collector.Collector
	webURL   string
	interval time.Duration
	store    *StatusStore
	warnings *WarningTracker
	history  map[string]*RingBuffer[float64]
	kick     chan struct{}
	polls    *atomic.Int64
}

func newPoller(coll collector.Collector, webURL string, interval time.Duration, store *StatusStore, warnings *WarningTracker, polls *atomic.Int64) *Poller {
	return &Poller{
		coll:     coll,
		webURL:   webURL,
		interval: interval,
		store:    store,
		warnings: warnings,
		history:  make(map[string]*RingBuffer[float64]),
		kick:     make(chan struct{}, 1),
		polls:    polls,
	}
}

// run polls immediately, then on every tick until ctx is cancelled. The
// ticker measures the interval from the start of each iteration and drops
// missed ticks, so one slow collect does not compound delay afterwards.
func (p *Poller) run(ctx context.Context) {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		case <-p.kick:
			p.pollOnce(ctx)
		}
	}
}

// PollNow requests an immediate out-of-band poll. Non-blocking; requests
// arriving while one is already pending coalesce. The regular cadence is
// unaffected.
func (p *Poller) PollNow() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// pollOnce performs one collect attempt and publishes the result.
func (p *Poller) pollOnce(ctx context.Context) {
	res := p.safeCollect(ctx)
	now := time.Now()
	p.polls.Add(1)

	name := p.coll.Name()
	p.warnings.Record(name, res.Err != "")

	snap := &ServerSnapshot{
		Name:        name,
		URL:         p.coll.URL(),
		WebURL:      p.webURL,
		PollEvery:   p.interval,
		Metrics:     p.decorate(res.Metrics),
		Err:         res.Err,
		HadError:    p.warnings.IsWarned(name),
		LastUpdated: now,
		Version:     res.Version,
		UptimeSec:   res.UptimeSec,
	}
	p.store.Put(name, snap)
}

// safeCollect invokes the collector, converting a panic into an errored
// result. Collectors handle their own failures by contract; this is the
// engine-level safety net so a misbehaving collector cannot kill its loop.
func (p *Poller) safeCollect(ctx context.Context) (res collector.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = collector.Result{Err: fmt.Sprintf("collector panic: %v", r)}
		}
	}()
	return p.coll.Collect(ctx)
}

// decorate finalizes metrics for publication: sparkline history is
// appended and trimmed, and the display color is fixed so every renderer
// sees the same evaluation. Metrics that bring their own history (HTTP
// servers may ship one) keep it, trimmed to the newest points.
func (p *Poller) decorate(metrics []metric.Metric) []metric.Metric {
	// Work on a copy so a collector reusing its slice cannot mutate an
	// already-published snapshot.
	out := make([]metric.Metric, len(metrics))
	copy(out, metrics)
	for i := range out {
		m := &out[i]
		if len(m.Sparkline) > 0 {
			if len(m.Sparkline) > metric.MaxHistory {
				m.Sparkline = m.Sparkline[len(m.Sparkline)-metric.MaxHistory:]
			}
		} else if v, ok := metric.Numeric(m.Value); ok {
			buf := p.history[m.Key]
			if buf == nil {
				buf = NewRingBuffer[float64](metric.MaxHistory)
				p.history[m.Key] = buf
			}
			buf.Add(v)
			m.Sparkline = buf.All()
		}
		if m.Color == "" {
			m.Color = metric.ColorFor(*m)
		}
	}
	return out
}
