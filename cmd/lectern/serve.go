package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/home"
	"github.com/lecternhq/lectern/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lectern server",
	Long: `Start the Lectern HTTP server.

This starts both the HTTP API server and the document store container.
When the server shuts down (via Ctrl+C or SIGTERM), the store is also stopped.

The server provides:
  - /health - Basic server health check
  - /ready  - Readiness check (includes document store status)

Examples:
  lectern serve                    # Start on default port 8080
  lectern serve --port 3000        # Start on custom port
  lectern serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		storeDataPath := filepath.Join(h.Path(), "docstore")
		if err := os.MkdirAll(storeDataPath, 0o755); err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Home:          h,
			StoreDataPath: storeDataPath,
			StoreConfig:   docstore.DockerConfig{},
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
