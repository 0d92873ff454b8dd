package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceExcel tags catalog rows created by the spreadsheet importer
const SourceExcel = "excel"

// Table names the catalog tables the import pipeline writes to
type Table string

const (
	TableVariants       Table = "catalog_variants"
	TableMasterProducts Table = "catalog_master_products"
	TableImportLogs     Table = "catalog_import_logs"
)

// Predicate is an equality filter on a single column
type Predicate struct {
	Column string
	Value  interface{}
}

// SourcePredicate matches rows tagged with the given source
func SourcePredicate(source string) Predicate {
	return Predicate{Column: "source", Value: source}
}

// MasterProduct groups variants that share a common name prefix
type MasterProduct struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string          `json:"name" gorm:"not null;uniqueIndex:idx_catalog_master_products_name"`
	BasePrice decimal.Decimal `json:"basePrice" gorm:"type:numeric(12,2);not null"`
	Category  *string         `json:"category,omitempty" gorm:"index"`
	Source    string          `json:"source" gorm:"not null;index"`
	Variants  []Variant       `json:"variants,omitempty" gorm:"foreignKey:MasterProductID"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for MasterProduct
func (MasterProduct) TableName() string {
	return string(TableMasterProducts)
}

// Variant is one purchasable SKU of a master product
type Variant struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MasterProductID *uuid.UUID      `json:"masterProductId,omitempty" gorm:"type:uuid;index"`
	ArticleNumber   string          `json:"articleNumber" gorm:"not null;uniqueIndex:idx_catalog_variants_article_number"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	StockIndicator  int             `json:"stockIndicator" gorm:"not null;default:0"`
	ImageURL        *string         `json:"imageUrl,omitempty"`
	Category        *string         `json:"category,omitempty" gorm:"index"`
	Subcategory     *string         `json:"subcategory,omitempty"`
	Supplier        *string         `json:"supplier,omitempty" gorm:"index"`
	EAN             *string         `json:"ean,omitempty"`
	VariantType     *string         `json:"variantType,omitempty"`
	VariantGroup    *string         `json:"variantGroup,omitempty"`
	Source          string          `json:"source" gorm:"not null;index"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Variant
func (Variant) TableName() string {
	return string(TableVariants)
}

// UpsertCounts reports how many rows an upsert inserted and how many it overwrote
type UpsertCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Applied is the number of rows the upsert wrote
func (c UpsertCounts) Applied() int {
	return c.Created + c.Updated
}
