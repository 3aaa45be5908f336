package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server kinds understood by the collector factory.
const (
	KindHTTP     = "http"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

const defaultPollSeconds = 5

// QuerySpec is a custom SQL probe attached to a postgres server. The SQL
// must yield exactly one row with a "value" column.
type QuerySpec struct {
	Label        string   `yaml:"label"`
	SQL          string   `yaml:"sql"`
	Color        string   `yaml:"color,omitempty"`
	WarnAbove    *float64 `yaml:"warn_above,omitempty"`
	WarnBelow    *float64 `yaml:"warn_below,omitempty"`
	PollEverySec int      `yaml:"poll_every,omitempty"`
}

// PollEvery returns the query's effective cadence.
func (q QuerySpec) PollEvery() time.Duration {
	return time.Duration(q.PollEverySec) * time.Second
}

// ServerConfig describes one monitored server. Immutable after load.
type ServerConfig struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"type"`
	PollEverySec int    `yaml:"poll_every,omitempty"`

	// http
	MetricsEndpoint string `yaml:"metrics_endpoint,omitempty"`
	WebURL          string `yaml:"web_url,omitempty"`

	// redis
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// postgres
	DSN         string      `yaml:"dsn,omitempty"`
	SystemStats *bool       `yaml:"system_stats,omitempty"`
	Queries     []QuerySpec `yaml:"queries,omitempty"`
}

// PollEvery returns the server's poll cadence.
func (s ServerConfig) PollEvery() time.Duration {
	return time.Duration(s.PollEverySec) * time.Second
}

// WantSystemStats reports whether the postgres system views should be
// polled. Defaults to true when unset.
func (s ServerConfig) WantSystemStats() bool {
	return s.SystemStats == nil || *s.SystemStats
}

// URL returns the address shown to renderers for this server. Postgres
// DSNs are redacted so credentials never reach a UI.
func (s ServerConfig) URL() string {
	switch s.Kind {
	case KindHTTP:
		return s.MetricsEndpoint
	case KindRedis:
		return fmt.Sprintf("%s:%d", s.Host, s.Port)
	case KindPostgres:
		return redactDSN(s.DSN)
	}
	return ""
}

// Servers is the result of loading servers.yaml: the usable server list
// plus the names of entries skipped for having an unknown type.
type Servers struct {
	Servers []ServerConfig
	Skipped []string
}

type serversFile struct {
	Servers []ServerConfig `yaml:"servers"`
}

// LoadServers reads and validates servers.yaml at path, applying defaults:
// 5s poll cadence, redis localhost:6379, postgres system_stats on, and
// query cadences inheriting the server cadence. Entries with an unknown
// type are skipped, not fatal; structural problems (missing name, missing
// endpoint/dsn, duplicate names) are errors.
func LoadServers(path string) (*Servers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file serversFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	out := &Servers{}
	seen := make(map[string]bool)
	for i := range file.Servers {
		srv := file.Servers[i]
		if srv.Name == "" {
			return nil, fmt.Errorf("config: server %d has no name", i)
		}
		if seen[srv.Name] {
			return nil, fmt.Errorf("config: duplicate server name %q", srv.Name)
		}
		seen[srv.Name] = true

		if srv.Kind == "" {
			srv.Kind = KindHTTP
		}
		if srv.PollEverySec <= 0 {
			srv.PollEverySec = defaultPollSeconds
		}

		switch srv.Kind {
		case KindHTTP:
			if srv.MetricsEndpoint == "" {
				return nil, fmt.Errorf("config: server %q: metrics_endpoint is required", srv.Name)
			}
		case KindRedis:
			if srv.Host == "" {
				srv.Host = "localhost"
			}
			if srv.Port == 0 {
				srv.Port = 6379
			}
		case KindPostgres:
			if srv.DSN == "" {
				return nil, fmt.Errorf("config: server %q: dsn is required", srv.Name)
			}
			for j := range srv.Queries {
				q := &srv.Queries[j]
				if q.Label == "" || q.SQL == "" {
					return nil, fmt.Errorf("config: server %q: query %d needs label and sql", srv.Name, j)
				}
				if q.PollEverySec <= 0 {
					q.PollEverySec = srv.PollEverySec
				}
			}
		default:
			out.Skipped = append(out.Skipped, srv.Name)
			continue
		}
		out.Servers = append(out.Servers, srv)
	}
	return out, nil
}

var dsnPassword = regexp.MustCompile(`password=\S+`)

// redactDSN strips credentials from both URL-style and keyword-style DSNs.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Host != "" {
		if u.User != nil {
			u.User = url.User(u.User.Username())
		}
		return u.Redacted()
	}
	if strings.Contains(dsn, "password=") {
		return dsnPassword.ReplaceAllString(dsn, "password=xxxxx")
	}
	return dsn
}
