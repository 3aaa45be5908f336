package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tonhe/vigil/internal/engine"
	"github.com/tonhe/vigil/internal/web"
)

var (
	webListen    string
	webStaticDir string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the browser-based web dashboard",
	Long: "Polls the configured servers and serves the aggregated status on\n" +
		"/api/status, plus a self-monitoring /metrics endpoint and any static\n" +
		"assets found in the static directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, servers, err := loadConfig()
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		eng, err := engine.New(servers.Servers, logger)
		if err != nil {
			return err
		}
		eng.SetLanIP(web.LanIP())
		eng.Start()
		defer eng.Stop()

		listen := webListen
		if listen == "" {
			listen = settings.WebListen
		}
		srv := web.NewServer(web.Config{Listen: listen, StaticDir: webStaticDir}, eng, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Start(ctx)
	},
}

func init() {
	webCmd.Flags().StringVar(&webListen, "listen", "", "bind address (default from settings.toml, 127.0.0.1:9860)")
	webCmd.Flags().StringVar(&webStaticDir, "static", "static", "directory of static assets served at /")
	rootCmd.AddCommand(webCmd)
}
