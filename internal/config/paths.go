package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "vigil"

// GetConfigDir returns the platform-specific config directory.
// Unix: $XDG_CONFIG_HOME/vigil or ~/.config/vigil
// Windows: %APPDATA%\vigil
func GetConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appName), nil
}

// GetSettingsPath returns the path to settings.toml.
func GetSettingsPath() (string, error) {
	cfgDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "settings.toml"), nil
}

// GetServersPath returns the default path to servers.yaml.
func GetServersPath() (string, error) {
	cfgDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "servers.yaml"), nil
}

// EnsureDirs creates the config directory if it doesn't exist.
func EnsureDirs() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}
