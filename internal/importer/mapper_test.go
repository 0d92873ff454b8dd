package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func TestMapRow_Localized(t *testing.T) {
	row := models.NewRawRow(map[string]interface{}{
		"Artikelnummer":      " DV-36-04 ",
		"Artikelbezeichnung": "Aquarellpinsel Serie 36 Gr. 4",
		"Preis":              "12,50",
		"VE":                 "6",
		"Hersteller":         "da Vinci GmbH",
		"EAN":                "4009078360045",
	})

	v, ok := MapRow(row, Localized)

	require.True(t, ok)
	assert.Equal(t, "DV-36-04", v.ArticleNumber)
	assert.Equal(t, "Aquarellpinsel Serie 36 Gr. 4", v.Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(v.Price))
	assert.Equal(t, 6, v.StockIndicator)
	assert.Equal(t, models.SourceExcel, v.Source)
	require.NotNil(t, v.Category)
	assert.Equal(t, "Brushes", *v.Category)
	require.NotNil(t, v.Subcategory)
	assert.Equal(t, "Watercolor Brushes", *v.Subcategory)
	require.NotNil(t, v.Supplier)
	assert.Equal(t, "da Vinci", *v.Supplier)
	require.NotNil(t, v.EAN)
	assert.Nil(t, v.ImageURL)
}

func TestMapRow_RowCategoryWins(t *testing.T) {
	row := models.NewRawRow(map[string]interface{}{
		"Article Number": "A-1",
		"Product Name":   "Watercolor Brush Round 4",
		"Price":          "3.10",
		"Category":       "Sale",
	})

	v, ok := MapRow(row, Generic)

	require.True(t, ok)
	assert.Equal(t, "Sale", *v.Category)
	assert.Nil(t, v.Subcategory, "a classifier subcategory must not be attached to a foreign category")
}

func TestMapRow_RowSubcategoryKept(t *testing.T) {
	row := models.NewRawRow(map[string]interface{}{
		"Article Number": "A-1",
		"Product Name":   "Watercolor Brush Round 4",
		"Price":          "3.10",
		"Subcategory":    "Rounds",
	})

	v, _ := MapRow(row, Generic)

	assert.Equal(t, "Brushes", *v.Category)
	assert.Equal(t, "Rounds", *v.Subcategory)
}

func TestMapRow_LenientStock(t *testing.T) {
	row := models.NewRawRow(map[string]interface{}{
		"Article Number": "A-1",
		"Product Name":   "Easel",
		"Price":          "0",
		"Stock":          "plenty",
	})

	v, ok := MapRow(row, Generic)

	require.True(t, ok)
	assert.Equal(t, 0, v.StockIndicator)
	assert.True(t, v.Price.IsZero())
}

func TestMapRow_SupplierFallback(t *testing.T) {
	row := models.NewRawRow(map[string]interface{}{
		"Article Number": "A-1",
		"Product Name":   "Mystery Item",
		"Price":          "1",
		"Supplier":       "Kreativ Handel GmbH",
	})

	v, _ := MapRow(row, Generic)

	assert.Equal(t, "Other", *v.Category)
	assert.Equal(t, "Kreativ Handel", *v.Supplier)
}

func TestMapRows_DropsEmptyRows(t *testing.T) {
	rows := []models.RawRow{
		genericRow("A-1", "Blue Paint 10ml", "10"),
		genericRow("", "", ""),
		genericRow("A-2", "Blue Paint 20ml", "14,50"),
	}

	variants := MapRows(rows, Generic)

	require.Len(t, variants, 2)
	assert.Equal(t, "A-1", variants[0].ArticleNumber)
	assert.Equal(t, "A-2", variants[1].ArticleNumber)
}
