package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tonhe/vigil/internal/metric"
)

// serverJSON is one server entry in the status response.
type serverJSON struct {
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	WebURL      string          `json:"web_url,omitempty"`
	PollEvery   float64         `json:"poll_every"`
	LastUpdated float64         `json:"last_updated"`
	Metrics     []metric.Metric `json:"metrics"`
	Error       *string         `json:"error"`
	HadError    bool            `json:"had_error"`
	Version     string          `json:"version,omitempty"`
	Uptime      int64           `json:"uptime_seconds,omitempty"`
}

type statusJSON struct {
	Servers   []serverJSON `json:"servers"`
	Timestamp float64      `json:"timestamp"`
	LanIP     string       `json:"lan_ip,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.engine.Snapshot()

	out := statusJSON{
		Servers:   make([]serverJSON, 0, len(state.Servers)),
		Timestamp: unixSeconds(state.Timestamp),
		LanIP:     state.LanIP,
	}
	for _, snap := range state.Servers {
		entry := serverJSON{
			Name:      snap.Name,
			URL:       snap.URL,
			WebURL:    snap.WebURL,
			PollEvery: snap.PollEvery.Seconds(),
			Metrics:   snap.Metrics,
			HadError:  snap.HadError,
			Version:   snap.Version,
			Uptime:    snap.UptimeSec,
		}
		if !snap.Waiting {
			entry.LastUpdated = unixSeconds(snap.LastUpdated)
		}
		if snap.Err != "" {
			msg := snap.Err
			entry.Error = &msg
		}
		if entry.Metrics == nil {
			entry.Metrics = []metric.Metric{}
		}
		out.Servers = append(out.Servers, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClearWarnings(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearWarnings()
	s.logger.Info("warnings cleared", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSelfMetrics reports the dashboard's own health in the same metrics
// contract it consumes, so one vigil instance can monitor another.
func (s *Server) handleSelfMetrics(w http.ResponseWriter, r *http.Request) {
	state := s.engine.Snapshot()

	healthy, errored := 0, 0
	for _, snap := range state.Servers {
		switch {
		case snap.Err != "":
			errored++
		case snap.Healthy() && len(snap.Metrics) > 0:
			healthy++
		}
	}

	payload := map[string][]metric.Metric{
		"metrics": {
			{Key: "servers_monitored", Label: "Servers Monitored", Value: s.engine.Servers(), Unit: "count"},
			{Key: "servers_healthy", Label: "Servers Healthy", Value: healthy, Unit: "count", Color: metric.ColorGreen},
			{Key: "servers_errored", Label: "Servers Errored", Value: errored, Unit: "count", WarnAbove: metric.Threshold(0)},
			{Key: "uptime", Label: "Uptime", Value: int64(s.engine.Uptime().Seconds()), Unit: "s"},
			{Key: "total_polls", Label: "Total Polls", Value: s.engine.TotalPolls(), Unit: "count"},
		},
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}
