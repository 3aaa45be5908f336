package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds application-level preferences loaded from settings.toml.
// Server definitions live in a separate servers.yaml (see servers.go).
type Settings struct {
	Theme           string        `toml:"theme"`
	WebListen       string        `toml:"web_listen"`
	PollInterval    time.Duration `toml:"-"`
	PollIntervalStr string        `toml:"poll_interval"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Theme:           "solarized-dark",
		WebListen:       "127.0.0.1:9860",
		PollInterval:    5 * time.Second,
		PollIntervalStr: "5s",
	}
}

// LoadSettings reads settings.toml at path. A missing file is not an
// error; defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	cfg := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.PollIntervalStr != "" {
		d, err := time.ParseDuration(cfg.PollIntervalStr)
		if err == nil {
			cfg.PollInterval = d
		}
	}
	return cfg, nil
}

// SaveSettings writes settings to a TOML file at path.
func SaveSettings(cfg *Settings, path string) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
