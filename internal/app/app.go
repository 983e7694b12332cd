// Package app wires configuration into the data source and network service
// shared by both binaries.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"network-dashboard/internal/cache"
	"network-dashboard/internal/config"
	"network-dashboard/internal/db"
	"network-dashboard/internal/repository"
	"network-dashboard/internal/service"
	"network-dashboard/internal/source"
)

// NewSource builds the configured data source. The returned cleanup closes
// any connection it opened.
func NewSource(cfg *config.Config, log zerolog.Logger) (source.Source, func(), error) {
	switch cfg.Data.Source {
	case config.SourceSpreadsheet:
		return source.NewSpreadsheetSource(cfg.Data.File), func() {}, nil
	case config.SourceRemote:
		return source.NewRemoteSource(cfg.Data.EndpointURL, cfg.Data.EndpointToken, cfg.Data.RemoteTimeout, log), func() {}, nil
	}

	database, dialect, err := db.New(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	cleanup := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	repo := repository.NewNetworkRepository(database, dialect)
	return source.NewDatabaseSource(repo, cfg.Data.Variant, cfg.Data.Mode == config.ModeMemory), cleanup, nil
}

// NewCache builds the configured cache backend.
func NewCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, func(), error) {
	if cfg.Backend != config.CacheRedis {
		return cache.NewMemoryStore(), func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisStore(client), func() { _ = client.Close() }, nil
}

// NewNetworkService assembles source, cache and metrics into the service.
func NewNetworkService(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, log zerolog.Logger) (*service.NetworkService, func(), error) {
	src, closeSource, err := NewSource(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	store, closeCache, err := NewCache(ctx, cfg.Cache)
	if err != nil {
		closeSource()
		return nil, nil, err
	}

	log.Info().
		Str("source", src.Name()).
		Str("cache", cfg.Cache.Backend).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("data source configured")

	svc := service.NewNetworkService(src, store, cfg.Cache.TTL, metrics, log)
	return svc, func() {
		closeCache()
		closeSource()
	}, nil
}
