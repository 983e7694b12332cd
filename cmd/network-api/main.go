package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"network-dashboard/internal/app"
	"network-dashboard/internal/auth"
	"network-dashboard/internal/config"
	httphandler "network-dashboard/internal/http"
	"network-dashboard/internal/http/middleware"
	"network-dashboard/internal/logger"
	"network-dashboard/internal/secret"
	"network-dashboard/internal/service"
)

func main() {
	encrypt := flag.String("encrypt", "", "print the value encrypted with ENCRYPTION_KEY and exit")
	generateKey := flag.Bool("generate-key", false, "print a new ENCRYPTION_KEY and exit")
	issueToken := flag.String("issue-token", "", "print an access token for the given user id and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()

	if *encrypt != "" || *generateKey || *issueToken != "" {
		if err := runTool(*encrypt, *generateKey, *issueToken, *tokenTTL); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

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

	handler := httphandler.NewHandler(networkService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, metrics, appLogger)

	appLogger.Info().Msg("starting network api")
	if err := app.Serve(ctx, cfg.HTTP, router, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}

// runTool handles the one-shot credential helpers.
func runTool(encrypt string, generateKey bool, issueToken string, ttl time.Duration) error {
	_ = godotenv.Load()

	switch {
	case generateKey:
		key, err := secret.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Println(key)
	case encrypt != "":
		token, err := secret.Encrypt(os.Getenv("ENCRYPTION_KEY"), encrypt)
		if err != nil {
			return err
		}
		fmt.Println(token)
	default:
		accessSecret := os.Getenv("AUTH_ACCESS_SECRET")
		if accessSecret == "" {
			return fmt.Errorf("AUTH_ACCESS_SECRET is not set")
		}
		token, err := auth.NewParser(accessSecret).Issue(issueToken, "viewer", ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
	}
	return nil
}
