package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

const (
	LatestImportCacheKey = "catalog:imports:latest"
	LatestImportCacheTTL = 10 * time.Minute
)

// ImportLogRepository persists import logs and caches the latest completed one
type ImportLogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewImportLogRepository creates a new ImportLogRepository. redis may be nil.
func NewImportLogRepository(db *gorm.DB, redis *redis.Client) *ImportLogRepository {
	return &ImportLogRepository{db: db, redis: redis}
}

// Create appends a log entry and drops the cached latest log
func (r *ImportLogRepository) Create(ctx context.Context, log *models.ImportLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("create import log: %w", err)
	}
	if r.redis != nil && log.ImportStatus == models.ImportStatusCompleted {
		r.redis.Del(ctx, LatestImportCacheKey)
	}
	return nil
}

// LatestCompleted returns the most recent completed import log
func (r *ImportLogRepository) LatestCompleted(ctx context.Context) (*models.ImportLog, error) {
	if r.redis != nil {
		val, err := r.redis.Get(ctx, LatestImportCacheKey).Result()
		if err == nil {
			var log models.ImportLog
			if err := json.Unmarshal([]byte(val), &log); err == nil {
				return &log, nil
			}
		}
	}

	var log models.ImportLog
	err := r.db.WithContext(ctx).
		Where("import_status = ?", models.ImportStatusCompleted).
		Order("created_at DESC").
		Limit(1).
		Take(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(log); err == nil {
			r.redis.Set(ctx, LatestImportCacheKey, data, LatestImportCacheTTL)
		}
	}
	return &log, nil
}
