package importer

import (
	"strings"

	"catalog-service/internal/classifier"
	"catalog-service/internal/models"
)

// MapRow converts a validated raw row into a Variant. It returns false for an
// entirely empty row. Classification fills only what the row leaves blank.
func MapRow(row models.RawRow, mapping ColumnMapping) (*models.Variant, bool) {
	if mapping.IsEmptyRow(row) {
		return nil, false
	}

	name := mapping.Value(row, FieldProductName)
	price, _ := ParsePrice(mapping.Value(row, FieldPrice))
	stock, _ := ParseCount(mapping.Value(row, FieldStockIndicator))

	v := &models.Variant{
		ArticleNumber:  mapping.Value(row, FieldArticleNumber),
		Name:           name,
		Description:    mapping.Value(row, FieldDescription),
		Price:          price,
		StockIndicator: stock,
		ImageURL:       optional(mapping.Value(row, FieldImageURL)),
		EAN:            optional(mapping.Value(row, FieldEAN)),
		VariantType:    optional(mapping.Value(row, FieldVariantType)),
		Source:         models.SourceExcel,
	}

	result := classifier.Classify(name, mapping.Value(row, FieldSupplier))

	category := mapping.Value(row, FieldCategory)
	subcategory := mapping.Value(row, FieldSubcategory)
	if category == "" {
		category = result.Category
	}
	// a classifier subcategory only makes sense under its own category
	if subcategory == "" && strings.EqualFold(category, result.Category) {
		subcategory = result.Subcategory
	}
	v.Category = optional(category)
	v.Subcategory = optional(subcategory)

	if brand := classifier.CleanBrandName(result.Brand); brand != "" {
		v.Supplier = &brand
	}

	return v, true
}

// MapRows maps all rows in order, dropping empty ones
func MapRows(rows []models.RawRow, mapping ColumnMapping) []models.Variant {
	variants := make([]models.Variant, 0, len(rows))
	for _, row := range rows {
		if v, ok := MapRow(row, mapping); ok {
			variants = append(variants, *v)
		}
	}
	return variants
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
