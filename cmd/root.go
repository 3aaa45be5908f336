// Package cmd implements the vigil CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tonhe/vigil/internal/config"
	"github.com/tonhe/vigil/internal/engine"
	"github.com/tonhe/vigil/tui"
)

var (
	cfgFile   string
	themeName string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit string) {
	buildVersion = version
	buildCommit = commit
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("vigil version {{.Version}}\ncommit: %s\n", buildCommit))
}

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "vigil is a terminal dashboard for heterogeneous servers",
	Long: "vigil continuously polls custom HTTP metrics endpoints, Redis instances,\n" +
		"and PostgreSQL databases on independent schedules and renders their health\n" +
		"in a flicker-free terminal dashboard. Run \"vigil web\" for the browser UI.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, servers, err := loadConfig()
		if err != nil {
			return err
		}

		eng, err := engine.New(servers.Servers, slog.New(slog.DiscardHandler))
		if err != nil {
			return err
		}
		if themeName != "" {
			settings.Theme = themeName
		}
		eng.Start()

		p := tea.NewProgram(tui.NewAppModel(settings, eng), tea.WithAltScreen())
		_, err = p.Run()
		eng.Stop()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to servers.yaml (default: config dir)")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "theme override for this run")
}

// loadConfig resolves and loads settings.toml and servers.yaml. Warnings
// about skipped server entries go to stderr; a config that yields no
// usable servers is fatal before any poll loop starts.
func loadConfig() (*config.Settings, *config.Servers, error) {
	settingsPath, err := config.GetSettingsPath()
	if err != nil {
		return nil, nil, err
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, nil, err
	}

	serversPath := cfgFile
	if serversPath == "" {
		serversPath, err = config.GetServersPath()
		if err != nil {
			return nil, nil, err
		}
	}
	servers, err := config.LoadServers(serversPath)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range servers.Skipped {
		fmt.Fprintf(os.Stderr, "Warning: unknown server type for %q, skipping\n", name)
	}
	if len(servers.Servers) == 0 {
		return nil, nil, fmt.Errorf("no servers configured in %s", serversPath)
	}
	return settings, servers, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
