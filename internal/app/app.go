// Package app wires the menu proxy components from configuration.
package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.trai.ch/zerr"

	"github.com/Sternrassler/menu-proxy/internal/config"
	"github.com/Sternrassler/menu-proxy/internal/server"
	"github.com/Sternrassler/menu-proxy/pkg/cache"
	"github.com/Sternrassler/menu-proxy/pkg/logging"
	"github.com/Sternrassler/menu-proxy/pkg/service"
	"github.com/Sternrassler/menu-proxy/pkg/upstream"
)

// App holds the wired components.
type App struct {
	Config   config.Config
	Redis    *redis.Client
	Cache    *cache.Manager
	Upstream *upstream.Client
	Menus    *service.Service
	Server   *server.Server
	Logger   zerolog.Logger
}

// New connects to Redis and builds every component. The caller must Close
// the returned App.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewLogger("app")

	opts, err := cfg.RedisOptions()
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, zerr.With(zerr.Wrap(err, "connect to redis"), "addr", opts.Addr)
	}
	logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")

	fetcher, err := upstream.New(cfg.Upstream())
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	manager := cache.NewManager(redisClient)

	menus, err := service.New(manager, fetcher, cfg.Service())
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	if cfg.APIKey == "" {
		logger.Warn().Msg("YT_API_KEY is empty, upstream requests will be unauthenticated")
	}

	return &App{
		Config:   cfg,
		Redis:    redisClient,
		Cache:    manager,
		Upstream: fetcher,
		Menus:    menus,
		Server:   server.New(menus, manager),
		Logger:   logger,
	}, nil
}

// Close releases the Redis connection pool.
func (a *App) Close() error {
	return a.Redis.Close()
}
