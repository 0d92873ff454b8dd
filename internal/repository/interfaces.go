package repository

import (
	"context"

	"catalog-service/internal/models"
)

// CatalogRepositoryInterface is the store the import pipeline writes through.
// UpsertVariants applies one chunk atomically and reports how many rows it wrote.
type CatalogRepositoryInterface interface {
	UpsertMaster(ctx context.Context, master *models.MasterProduct) (*models.MasterProduct, error)
	UpsertVariants(ctx context.Context, variants []*models.Variant) (models.UpsertCounts, error)
	DeleteWhere(ctx context.Context, table models.Table, predicate models.Predicate) (int64, error)
	SelectMasters(ctx context.Context, predicate models.Predicate) ([]models.MasterProduct, error)
}

// ImportLogRepositoryInterface stores the append-only import audit log
type ImportLogRepositoryInterface interface {
	Create(ctx context.Context, log *models.ImportLog) error
	LatestCompleted(ctx context.Context) (*models.ImportLog, error)
}
