package engine

import (
	"time"

	"github.com/tonhe/vigil/internal/metric"
)

// ServerSnapshot is the latest published state for one monitored server.
// Snapshots are immutable after publish: a poll loop builds a fresh one
// each attempt and replaces the previous wholesale, so readers see either
// the old or the new state, never a partial one.
type ServerSnapshot struct {
	Name        string
	URL         string
	WebURL      string
	PollEvery   time.Duration
	Metrics     []metric.Metric
	Err         string    // last poll error; empty on success
	HadError    bool      // sticky until warnings are cleared
	LastUpdated time.Time // time of the last attempted poll
	Waiting     bool      // true until the first poll completes

	// Reported by collectors that know them (postgres).
	Version   string
	UptimeSec int64
}

// Healthy reports whether the last poll succeeded.
func (s ServerSnapshot) Healthy() bool {
	return !s.Waiting && s.Err == ""
}

// DashboardState is a consistent point-in-time view of every server,
// in configuration order.
type DashboardState struct {
	Servers   []ServerSnapshot
	Timestamp time.Time
	LanIP     string
}

// Get returns the snapshot for a server name, if present.
func (d DashboardState) Get(name string) (ServerSnapshot, bool) {
	for _, s := range d.Servers {
		if s.Name == name {
			return s, true
		}
	}
	return ServerSnapshot{}, false
}
