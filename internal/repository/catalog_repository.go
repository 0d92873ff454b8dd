package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-service/internal/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrColumnNotFilterable = errors.New("column cannot be used as a filter")
)

// filterable lists the columns DeleteWhere and SelectMasters accept per table
var filterable = map[models.Table]map[string]bool{
	models.TableVariants:       {"source": true, "supplier": true, "master_product_id": true, "article_number": true},
	models.TableMasterProducts: {"source": true, "name": true, "category": true},
	models.TableImportLogs:     {"import_status": true, "schema": true},
}

var (
	masterUpdateColumns  = []string{"base_price", "category", "source", "updated_at"}
	variantUpdateColumns = []string{
		"master_product_id", "name", "description", "price", "stock_indicator", "image_url",
		"category", "subcategory", "supplier", "ean", "variant_type", "variant_group", "source", "updated_at",
	}
)

// CatalogRepository handles database operations for master products and variants
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// UpsertMaster inserts a master product or updates the one with the same name,
// returning the stored row.
func (r *CatalogRepository) UpsertMaster(ctx context.Context, master *models.MasterProduct) (*models.MasterProduct, error) {
	now := time.Now()
	record := &models.MasterProduct{
		Name:      master.Name,
		BasePrice: master.BasePrice,
		Category:  master.Category,
		Source:    master.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns(masterUpdateColumns),
		}).
		Omit(clause.Associations).
		Create(record).Error
	if err != nil {
		return nil, fmt.Errorf("upsert master %q: %w", master.Name, err)
	}

	var saved models.MasterProduct
	if err := r.db.WithContext(ctx).Where("name = ?", master.Name).First(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}

// UpsertVariants writes one chunk in a single transaction keyed on article
// number. Duplicate article numbers within the chunk collapse to the last one,
// so the applied count may be lower than the chunk size.
func (r *CatalogRepository) UpsertVariants(ctx context.Context, variants []*models.Variant) (models.UpsertCounts, error) {
	var counts models.UpsertCounts
	records := dedupeByArticleNumber(variants)
	if len(records) == 0 {
		return counts, nil
	}

	now := time.Now()
	articles := make([]string, len(records))
	for i, v := range records {
		articles[i] = v.ArticleNumber
		v.CreatedAt = now
		v.UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Variant{}).Where("article_number IN ?", articles).Count(&existing).Error; err != nil {
			return fmt.Errorf("count existing variants: %w", err)
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_number"}},
			DoUpdates: clause.AssignmentColumns(variantUpdateColumns),
		}).Create(&records)
		if res.Error != nil {
			return fmt.Errorf("upsert variants: %w", res.Error)
		}

		applied := int(res.RowsAffected)
		counts.Updated = min(int(existing), applied)
		counts.Created = applied - counts.Updated
		return nil
	})
	if err != nil {
		return models.UpsertCounts{}, err
	}
	return counts, nil
}

// DeleteWhere removes every row of table matching the predicate
func (r *CatalogRepository) DeleteWhere(ctx context.Context, table models.Table, predicate models.Predicate) (int64, error) {
	model, err := modelFor(table)
	if err != nil {
		return 0, err
	}
	cond, err := condition(table, predicate)
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Where(cond).Delete(model)
	if res.Error != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}

// SelectMasters loads matching master products with their variants
func (r *CatalogRepository) SelectMasters(ctx context.Context, predicate models.Predicate) ([]models.MasterProduct, error) {
	cond, err := condition(models.TableMasterProducts, predicate)
	if err != nil {
		return nil, err
	}
	var masters []models.MasterProduct
	err = r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, article_number ASC")
		}).
		Where(cond).
		Order("created_at ASC, name ASC").
		Find(&masters).Error
	if err != nil {
		return nil, fmt.Errorf("select masters: %w", err)
	}
	return masters, nil
}

func modelFor(table models.Table) (interface{}, error) {
	switch table {
	case models.TableVariants:
		return &models.Variant{}, nil
	case models.TableMasterProducts:
		return &models.MasterProduct{}, nil
	case models.TableImportLogs:
		return &models.ImportLog{}, nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}

func condition(table models.Table, predicate models.Predicate) (clause.Expression, error) {
	if !filterable[table][predicate.Column] {
		return nil, fmt.Errorf("%s.%s: %w", table, predicate.Column, ErrColumnNotFilterable)
	}
	return clause.Eq{Column: clause.Column{Name: predicate.Column}, Value: predicate.Value}, nil
}

func dedupeByArticleNumber(variants []*models.Variant) []*models.Variant {
	last := make(map[string]int, len(variants))
	for i, v := range variants {
		last[v.ArticleNumber] = i
	}
	out := make([]*models.Variant, 0, len(last))
	for i, v := range variants {
		if last[v.ArticleNumber] == i {
			out = append(out, v)
		}
	}
	return out
}
