package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"network-dashboard/internal/app"
	"network-dashboard/internal/auth"
	"network-dashboard/internal/config"
	httphandler "network-dashboard/internal/http"
	"network-dashboard/internal/http/middleware"
	"network-dashboard/internal/logger"
	"network-dashboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	networkService, cleanup, err := app.NewNetworkService(ctx, cfg, metrics, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialise data source")
	}
	defer cleanup()

	var tokenParser *auth.Parser
	if cfg.Auth.AccessSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.AccessSecret)
	}

	handler := httphandler.NewDashboardHandler(networkService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, metrics, appLogger)

	appLogger.Info().Msg("starting network dashboard")
	if err := app.Serve(ctx, cfg.HTTP, router, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
