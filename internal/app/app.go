// Package app wires configuration, storage and the import service together
// for the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/grouping"
	"catalog-service/internal/repository"
	"catalog-service/internal/services"
)

type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher *events.Publisher
	Imports   *services.ImportService
}

// NewLogger builds the JSON logger used across the service
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// New connects to the database, and to Redis and NATS when configured.
// Redis and NATS are optional: failures are logged and the feature is skipped.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	names, err := config.LoadMappings(cfg.MappingsFile)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		logger.WithField("mappings", names).Info("Registered extra column mappings")
	}

	strategy, err := grouping.ParseStrategy(cfg.GroupingStrategy)
	if err != nil {
		return nil, fmt.Errorf("IMPORT_GROUPING_STRATEGY: %w", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}
	a.Redis = newRedisClient(cfg.RedisURL, logger)

	var publisher services.ImportEventPublisher
	if cfg.NATSURL != "" {
		a.Publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize events publisher, continuing without event publishing")
		} else {
			publisher = a.Publisher
			logger.Info("Events publisher initialized (NATS connected)")
		}
	} else {
		logger.Info("NATS_URL not set, skipping event publishing initialization")
	}

	a.Imports = services.NewImportService(
		repository.NewCatalogRepository(db),
		repository.NewImportLogRepository(db, a.Redis),
		publisher,
		services.ImportSettings{
			BatchSize:    cfg.BatchSize,
			MaxBatchSize: cfg.MaxBatchSize,
			Workers:      cfg.Workers,
			ChunkTimeout: cfg.ChunkTimeout,
			Strategy:     strategy,
		},
		logger,
	)
	return a, nil
}

// Close releases every connection the app opened
func (a *App) Close() {
	a.Publisher.Close()
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func newRedisClient(url string, logger *logrus.Logger) *redis.Client {
	if url == "" {
		logger.Info("REDIS_URL not set, latest-import caching disabled")
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse Redis URL, latest-import caching disabled")
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis, latest-import caching disabled")
		client.Close()
		return nil
	}
	logger.Info("Redis connected successfully")
	return client
}
