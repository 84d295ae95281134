package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/config"
	"github.com/copyforge/copyforge/internal/home"
	"github.com/copyforge/copyforge/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the copyforge server",
	Long: `Start the copyforge HTTP server.

The server loads the content catalog and asset templates at startup and
serves composition requests. If the catalog file changes on disk, a
validated replacement is swapped in atomically; in-flight requests keep
the snapshot they started with.

Examples:
  copyforge serve                    # Start on default port 8080
  copyforge serve --port 3000        # Start on custom port
  copyforge serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()
		cfg := cm.Get()

		logger := newLogger(cfg.LogLevel)
		cm.OnChange(func(c *config.Config) {
			logger.Info("configuration reloaded", "catalog_path", c.CatalogPath, "log_level", c.LogLevel)
		})

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		// Flag > config > home-dir catalog > embedded seed.
		catalogPath := cfg.CatalogPath
		if catalogPath == "" && h.CatalogExists() {
			catalogPath = h.CatalogPath()
		}
		templatesDir := cfg.TemplatesDir
		if templatesDir == "" {
			templatesDir = h.TemplatesPath()
		}

		host := serveHost
		if host == "" {
			host = cfg.Server.Host
		}
		port := servePort
		if port == "" {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:             host,
			Port:             port,
			CatalogPath:      catalogPath,
			TemplatesDir:     templatesDir,
			WatchCatalog:     cfg.WatchCatalog,
			ConfigManager:    cm,
			DefaultVariables: cfg.ResolvedVariables(),
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		if catalogPath == "" {
			logger.Info("no catalog file found, serving embedded seed catalog")
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
