package services

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type upsertFunc func(ctx context.Context, variants []*models.Variant) (models.UpsertCounts, error)

// MockCatalogRepository is a mock implementation of CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

var _ repository.CatalogRepositoryInterface = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) UpsertMaster(ctx context.Context, master *models.MasterProduct) (*models.MasterProduct, error) {
	args := m.Called(ctx, master)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasterProduct), args.Error(1)
}

func (m *MockCatalogRepository) UpsertVariants(ctx context.Context, variants []*models.Variant) (models.UpsertCounts, error) {
	args := m.Called(ctx, variants)
	if fn, ok := args.Get(0).(upsertFunc); ok {
		return fn(ctx, variants)
	}
	return args.Get(0).(models.UpsertCounts), args.Error(1)
}

func (m *MockCatalogRepository) DeleteWhere(ctx context.Context, table models.Table, predicate models.Predicate) (int64, error) {
	args := m.Called(ctx, table, predicate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) SelectMasters(ctx context.Context, predicate models.Predicate) ([]models.MasterProduct, error) {
	args := m.Called(ctx, predicate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasterProduct), args.Error(1)
}

// MockImportLogRepository is a mock implementation of ImportLogRepositoryInterface
type MockImportLogRepository struct {
	mock.Mock
}

var _ repository.ImportLogRepositoryInterface = (*MockImportLogRepository)(nil)

func (m *MockImportLogRepository) Create(ctx context.Context, log *models.ImportLog) error {
	args := m.Called(ctx, log)
	if args.Error(0) == nil {
		log.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockImportLogRepository) LatestCompleted(ctx context.Context) (*models.ImportLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportLog), args.Error(1)
}

// MockPublisher is a mock implementation of ImportEventPublisher
type MockPublisher struct {
	mock.Mock
}

var _ ImportEventPublisher = (*MockPublisher)(nil)

func (m *MockPublisher) PublishImportCompleted(ctx context.Context, log *models.ImportLog, outcome *models.ImportOutcome) error {
	args := m.Called(ctx, log, outcome)
	return args.Error(0)
}

// memoryCatalog is an in-memory store keyed like the real tables
type memoryCatalog struct {
	mu       sync.Mutex
	masters  map[string]models.MasterProduct
	variants map[string]models.Variant
}

var _ repository.CatalogRepositoryInterface = (*memoryCatalog)(nil)

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		masters:  map[string]models.MasterProduct{},
		variants: map[string]models.Variant{},
	}
}

func (c *memoryCatalog) UpsertMaster(_ context.Context, master *models.MasterProduct) (*models.MasterProduct, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.masters[master.Name]
	if !ok {
		stored = *master
		stored.ID = uuid.New()
	}
	stored.BasePrice = master.BasePrice
	stored.Category = master.Category
	c.masters[master.Name] = stored
	return &stored, nil
}

func (c *memoryCatalog) UpsertVariants(_ context.Context, variants []*models.Variant) (models.UpsertCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var counts models.UpsertCounts
	for _, v := range variants {
		if _, ok := c.variants[v.ArticleNumber]; ok {
			counts.Updated++
		} else {
			counts.Created++
		}
		c.variants[v.ArticleNumber] = *v
	}
	return counts, nil
}

func (c *memoryCatalog) DeleteWhere(_ context.Context, table models.Table, predicate models.Predicate) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	switch table {
	case models.TableVariants:
		for k, v := range c.variants {
			if v.Source == predicate.Value {
				delete(c.variants, k)
				n++
			}
		}
	case models.TableMasterProducts:
		for k, m := range c.masters {
			if m.Source == predicate.Value {
				delete(c.masters, k)
				n++
			}
		}
	}
	return n, nil
}

func (c *memoryCatalog) SelectMasters(_ context.Context, _ models.Predicate) ([]models.MasterProduct, error) {
	return nil, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
