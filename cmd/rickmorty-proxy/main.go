package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/characterhub/rickmorty-proxy/internal/config"
	"github.com/characterhub/rickmorty-proxy/pkg/api"
	"github.com/characterhub/rickmorty-proxy/pkg/cache"
	"github.com/characterhub/rickmorty-proxy/pkg/health"
	"github.com/characterhub/rickmorty-proxy/pkg/logging"
	"github.com/characterhub/rickmorty-proxy/pkg/ratelimit"
	"github.com/characterhub/rickmorty-proxy/pkg/service"
	"github.com/characterhub/rickmorty-proxy/pkg/store"
	"github.com/characterhub/rickmorty-proxy/pkg/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		logger := logging.NewLogger("main")
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logging.Setup(logCfg)
	logger := logging.NewLogger("main")

	// Fatal exits inside run would skip the connection-closing defers, so
	// run returns instead and the process exits here.
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// run wires the pipeline and serves until a shutdown signal or a fatal
// server error. Everything fallible that does not hold resources comes
// before the Redis and Postgres connections, so every error return path
// releases what was opened.
func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()

	fetcher, err := upstream.New(upstream.Config{
		BaseURL: cfg.UpstreamURL,
		Timeout: 10 * time.Second,
		Retry:   upstream.DefaultRetryConfig(),
	})
	if err != nil {
		return errors.Wrap(err, "create upstream client")
	}

	// Redis: a failed connection degrades the cache, it does not stop the
	// process. The healthcheck surfaces the outage.
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Str("addr", cfg.RedisAddr()).Msg("Redis connection failed, cache degraded")
	} else {
		logger.Info().Str("addr", cfg.RedisAddr()).Msg("Connected to Redis")
	}
	resultCache := cache.NewManager(redisClient, cfg.RedisTTL)

	// Postgres: same policy, persistence becomes a no-op when down.
	characterStore, err := store.New(ctx, cfg.DatabaseDSN())
	if err != nil {
		logger.Error().Err(err).Msg("Database connection failed, persistence disabled")
		characterStore = store.NewDisabled()
	} else {
		logger.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("Connected to Postgres")
	}
	defer characterStore.Close()

	svc := service.New(fetcher, resultCache, characterStore)
	probe := health.NewProbe(characterStore, resultCache)
	limiter := ratelimit.New(cfg.RateLimitRPM)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewServer(svc, probe, limiter).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Starting character proxy server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "listen and serve")
	case <-stop:
	}

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}

	return nil
}
