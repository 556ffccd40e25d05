package cli

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/observability"
	"resumatch/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume scoring",
	Long: `Start an HTTP server that exposes the scoring pipeline over REST.

Available endpoints:
- POST /evaluate: Score a resume record against a job record
- GET /health: Health check including backend circuit breaker state
- GET /stats: Server statistics and rate limiting info

The server watches the config file and rebuilds the scoring pipeline when
scoring weights or backend selection change, without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")

	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, err := observability.NewManager(cfg.Observability, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	pipeline, health, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}

	srv := server.NewServer(serverCfg, pipeline, om, logger)
	srv.SetBackendHealth(health)

	watcher, err := config.NewWatcher(cfg.ConfigFile(), func(updated *config.Config) {
		rebuilt, rebuiltHealth, err := buildPipeline(updated, logger)
		if err != nil {
			logger.LogError(err, "Config reload: pipeline rebuild failed, keeping current pipeline")
			return
		}
		srv.SetBackendHealth(rebuiltHealth)
		srv.SwapPipeline(rebuilt)
	}, logger)
	if err != nil {
		logger.Warn("Config watcher unavailable, hot-reload disabled", "error", err.Error())
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn("Config watcher failed to start, hot-reload disabled", "error", err.Error())
		} else {
			defer watcher.Stop()
		}
	}

	return srv.Start(cmd.Context())
}
