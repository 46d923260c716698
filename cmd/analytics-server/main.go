package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/latencylab/edge-placement-rl/internal/api"
	"github.com/latencylab/edge-placement-rl/internal/config"
	"github.com/latencylab/edge-placement-rl/internal/database"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (placement.yaml is searched when empty)")
		dbPath     = flag.String("db", "", "Override storage.database_path")
		port       = flag.Int("port", 0, "Override server.port")
	)
	flag.Parse()

	boot := hclog.New(&hclog.LoggerOptions{Name: "analytics-server"})
	loader := config.NewLoader(boot)
	cfg, err := loader.Load(*configPath)
	if err != nil {
		boot.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := cfg.Log.NewLogger("analytics-server")

	logger.Info("connecting to results database", "path", cfg.Storage.DatabasePath)
	db, err := database.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	server := api.NewServer(cfg.Server, repo, logger.Named("api"))

	// Pick up config file edits while serving
	loader.Watch(func(updated *config.Config) {
		logger.Info("configuration reloaded, restart to apply listener changes")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown incomplete", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
