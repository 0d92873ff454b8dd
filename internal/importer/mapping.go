package importer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"catalog-service/internal/models"
)

// Field is a canonical catalog field a spreadsheet column can feed
type Field string

const (
	FieldArticleNumber  Field = "articleNumber"
	FieldProductName    Field = "productName"
	FieldPrice          Field = "price"
	FieldDescription    Field = "description"
	FieldStockIndicator Field = "stockIndicator"
	FieldCategory       Field = "category"
	FieldSubcategory    Field = "subcategory"
	FieldSupplier       Field = "supplier"
	FieldEAN            Field = "ean"
	FieldImageURL       Field = "imageUrl"
	FieldVariantType    Field = "variantType"
)

// RequiredFields must be mapped by every column mapping
var RequiredFields = []Field{FieldArticleNumber, FieldProductName, FieldPrice}

// KnownFields is the closed set of fields a mapping may name
var KnownFields = []Field{
	FieldArticleNumber, FieldProductName, FieldPrice, FieldDescription, FieldStockIndicator,
	FieldCategory, FieldSubcategory, FieldSupplier, FieldEAN, FieldImageURL, FieldVariantType,
}

const (
	SchemaLocalized = "localized"
	SchemaGeneric   = "generic"
)

// ColumnMapping describes which spreadsheet column feeds which canonical field.
// CountField, when set, names a field whose value must be an integer.
type ColumnMapping struct {
	Name       string           `json:"name"`
	Columns    map[Field]string `json:"columns"`
	CountField Field            `json:"countField,omitempty"`
}

// Localized is the supplier's native German layout. The packaging unit (VE)
// stands in for the stock indicator.
var Localized = ColumnMapping{
	Name: SchemaLocalized,
	Columns: map[Field]string{
		FieldArticleNumber:  "Artikelnummer",
		FieldProductName:    "Artikelbezeichnung",
		FieldPrice:          "Preis",
		FieldDescription:    "Beschreibung",
		FieldStockIndicator: "VE",
		FieldCategory:       "Kategorie",
		FieldSupplier:       "Hersteller",
		FieldEAN:            "EAN",
		FieldImageURL:       "Bild-URL",
	},
	CountField: FieldStockIndicator,
}

// Generic is the English layout with an explicit stock column
var Generic = ColumnMapping{
	Name: SchemaGeneric,
	Columns: map[Field]string{
		FieldArticleNumber:  "Article Number",
		FieldProductName:    "Product Name",
		FieldPrice:          "Price",
		FieldDescription:    "Description",
		FieldStockIndicator: "Stock",
		FieldCategory:       "Category",
		FieldSubcategory:    "Subcategory",
		FieldSupplier:       "Supplier",
		FieldEAN:            "EAN",
		FieldImageURL:       "Image URL",
		FieldVariantType:    "Variant",
	},
}

// Column returns the source column for a field, or "" when unmapped
func (m ColumnMapping) Column(f Field) string {
	return m.Columns[f]
}

// Value reads a field from a raw row through this mapping
func (m ColumnMapping) Value(row models.RawRow, f Field) string {
	column := m.Column(f)
	if column == "" {
		return ""
	}
	return row.Value(column)
}

// IsEmptyRow reports whether every mapped field of the row is absent
func (m ColumnMapping) IsEmptyRow(row models.RawRow) bool {
	for _, column := range m.Columns {
		if row.Has(column) {
			return false
		}
	}
	return true
}

// Validate checks that the mapping is usable: a name, all required fields,
// only known fields, and a mapped CountField.
func (m ColumnMapping) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("column mapping has no name")
	}
	for _, f := range RequiredFields {
		if strings.TrimSpace(m.Columns[f]) == "" {
			return fmt.Errorf("column mapping %q does not map required field %s", m.Name, f)
		}
	}
	for f := range m.Columns {
		if !isKnownField(f) {
			return fmt.Errorf("column mapping %q maps unknown field %s", m.Name, f)
		}
	}
	if m.CountField != "" && m.Columns[m.CountField] == "" {
		return fmt.Errorf("column mapping %q declares count field %s without a column", m.Name, m.CountField)
	}
	return nil
}

// CheckHeaders fails with a SchemaError when the sheet lacks a required column
func (m ColumnMapping) CheckHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[normalizeHeader(h)] = true
	}
	var missing []string
	for _, f := range RequiredFields {
		column := m.Columns[f]
		if !present[normalizeHeader(column)] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Schema: m.Name, Missing: missing}
	}
	return nil
}

func (m ColumnMapping) clone() ColumnMapping {
	columns := make(map[Field]string, len(m.Columns))
	for f, c := range m.Columns {
		columns[f] = c
	}
	m.Columns = columns
	return m
}

func isKnownField(f Field) bool {
	for _, known := range KnownFields {
		if known == f {
			return true
		}
	}
	return false
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(h), " *"))
}

type mappingRegistry struct {
	mu       sync.RWMutex
	mappings map[string]ColumnMapping
}

var registry = &mappingRegistry{
	mappings: map[string]ColumnMapping{
		SchemaLocalized: Localized,
		SchemaGeneric:   Generic,
	},
}

// Resolve returns the column mapping registered under schemaID
func Resolve(schemaID string) (ColumnMapping, error) {
	id := strings.ToLower(strings.TrimSpace(schemaID))
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	m, ok := registry.mappings[id]
	if !ok {
		return ColumnMapping{}, &SchemaError{Schema: schemaID}
	}
	return m.clone(), nil
}

// Register adds or replaces a column mapping after validating it
func Register(m ColumnMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.Name = strings.ToLower(strings.TrimSpace(m.Name))
	registry.mu.Lock()
	registry.mappings[m.Name] = m.clone()
	registry.mu.Unlock()
	return nil
}

// Schemas lists registered schema ids in sorted order
func Schemas() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	ids := make([]string, 0, len(registry.mappings))
	for id := range registry.mappings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
