package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teammatch/internal/bot"
	"teammatch/internal/config"
	"teammatch/internal/logger"
	"teammatch/internal/matching"
	"teammatch/internal/notify"
	"teammatch/internal/scheduler"
	"teammatch/internal/storage"
	"teammatch/internal/storage/cached"
	"teammatch/internal/storage/postgres"
	"teammatch/internal/storage/redis"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting team matcher",
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
		zap.Duration("match_ttl", cfg.MatchTTL),
		zap.Duration("sweep_interval", cfg.SweepInterval),
	)

	registry, err := openRegistry(cfg, log)
	if err != nil {
		log.Fatal("failed to open registry", zap.Error(err))
	}
	defer registry.Close()

	var (
		tgBot    *bot.Bot
		notifier notify.Notifier = notify.Nop{}
	)
	if cfg.TelegramToken != "" {
		tgBot, err = bot.New(cfg.TelegramToken, log)
		if err != nil {
			log.Fatal("failed to create bot", zap.Error(err))
		}
		notifier = notify.NewTelegram(tgBot.API(), log)
	} else {
		log.Info("TELEGRAM_TOKEN not set, notifications and answers disabled")
	}

	service := matching.New(registry, notifier, cfg.MatchTTL, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if tgBot != nil {
		tgBot.Register(service)
		go tgBot.Start(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("starting expiry checker...")
	checker := scheduler.New(service, cfg.SweepInterval, log)

	log.Info("matcher is running, press Ctrl+C to stop")
	checker.Start(ctx)

	log.Info("shutting down gracefully...")
}

// openRegistry opens the Postgres registry and wraps it with the Redis cache when enabled
func openRegistry(cfg *config.Config, log *zap.Logger) (storage.Registry, error) {
	// profiles and proposals are written by the processes that compute scores,
	// so the matcher only makes sense on the shared database
	if cfg.StorageBackend != config.BackendPostgres {
		return nil, fmt.Errorf("matcher needs STORAGE_BACKEND=%s, got %q", config.BackendPostgres, cfg.StorageBackend)
	}

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	var registry storage.Registry = store

	if !cfg.CacheEnabled {
		return registry, nil
	}

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		_ = registry.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &closeBoth{Registry: cached.New(registry, cache, cfg.CacheTTL, log), cache: cache}, nil
}

// closeBoth closes the cache connection along with the registry
type closeBoth struct {
	storage.Registry
	cache *redis.Cache
}

func (c *closeBoth) Close() error {
	cacheErr := c.cache.Close()
	if err := c.Registry.Close(); err != nil {
		return err
	}
	return cacheErr
}
