package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dealmungchi/barebonecrawler/config"
	"github.com/dealmungchi/barebonecrawler/internal/crawler"
	"github.com/dealmungchi/barebonecrawler/logger"
	"github.com/dealmungchi/barebonecrawler/services/cache"
	"github.com/dealmungchi/barebonecrawler/services/publisher"
	"github.com/dealmungchi/barebonecrawler/services/store"
	"github.com/dealmungchi/barebonecrawler/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("schedule", cfg.CrawlSchedule).
		Bool("run_once", cfg.RunOnce).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	crawlers := crawler.CreateCrawlers(cfg, services.Cache)

	w := worker.NewWorker(ctx, crawlers, services.Store, services.Publisher, worker.Options{
		AdminURL:  cfg.CatalogAdminURL,
		ExportDir: cfg.ExportDir,
		Schedule:  cfg.CrawlSchedule,
	})

	if cfg.RunOnce {
		report := w.RunOnce()
		if len(report.Errors) > 0 {
			log.Error().Int("errors", len(report.Errors)).Msg("Run finished with errors")
		}
		return
	}

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting barebone worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Store     store.TableStore
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes the store and the optional cache and publisher
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcacheService.Ping(); err != nil {
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache is not answering")
		}
		services.Cache = memcacheService
		logger.ForCache().Info().Str("addr", cfg.MemcacheAddr).Msg("Using Memcache for rate limit blocks")
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			redisPublisher.Close()
			return nil, err
		}
		services.Publisher = redisPublisher
		logger.ForPublisher().Info().
			Str("addr", cfg.RedisAddr).
			Int("db", cfg.RedisDB).
			Str("stream", cfg.RedisStream).
			Msg("Connected to Redis")
	}

	st, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		services.Cleanup()
		return nil, err
	}
	services.Store = st
	logger.Info("Opened %s table store", cfg.StoreDriver)

	return services, nil
}
