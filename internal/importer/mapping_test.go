package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func TestResolve_BuiltIns(t *testing.T) {
	localized, err := Resolve("localized")
	require.NoError(t, err)
	assert.Equal(t, "Artikelnummer", localized.Column(FieldArticleNumber))
	assert.Equal(t, "VE", localized.Column(FieldStockIndicator))
	assert.Equal(t, FieldStockIndicator, localized.CountField)

	generic, err := Resolve(" Generic ")
	require.NoError(t, err)
	assert.Equal(t, "Stock", generic.Column(FieldStockIndicator))
	assert.Empty(t, generic.CountField)
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve("nope")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "nope", schemaErr.Schema)
	assert.Contains(t, err.Error(), "unknown column mapping")
}

func TestResolve_ReturnsCopy(t *testing.T) {
	m, err := Resolve(SchemaGeneric)
	require.NoError(t, err)
	m.Columns[FieldPrice] = "Changed"

	again, err := Resolve(SchemaGeneric)
	require.NoError(t, err)
	assert.Equal(t, "Price", again.Column(FieldPrice))
}

func TestBuiltInMappingsAreValid(t *testing.T) {
	for _, m := range []ColumnMapping{Localized, Generic} {
		assert.NoError(t, m.Validate(), m.Name)
		for _, f := range RequiredFields {
			assert.NotEmpty(t, m.Column(f), "%s must map %s", m.Name, f)
		}
	}
}

func TestRegister(t *testing.T) {
	err := Register(ColumnMapping{
		Name: "Test-Supplier",
		Columns: map[Field]string{
			FieldArticleNumber: "SKU",
			FieldProductName:   "Title",
			FieldPrice:         "Net",
		},
	})
	require.NoError(t, err)

	m, err := Resolve("test-supplier")
	require.NoError(t, err)
	assert.Equal(t, "Net", m.Column(FieldPrice))
	assert.Contains(t, Schemas(), "test-supplier")
}

func TestRegister_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
	}{
		{"no name", ColumnMapping{Columns: Generic.Columns}},
		{"missing price", ColumnMapping{Name: "x", Columns: map[Field]string{
			FieldArticleNumber: "A", FieldProductName: "B",
		}}},
		{"unknown field", ColumnMapping{Name: "x", Columns: map[Field]string{
			FieldArticleNumber: "A", FieldProductName: "B", FieldPrice: "C", Field("color"): "D",
		}}},
		{"unmapped count field", ColumnMapping{Name: "x", CountField: FieldStockIndicator, Columns: map[Field]string{
			FieldArticleNumber: "A", FieldProductName: "B", FieldPrice: "C",
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Register(tt.mapping))
		})
	}
}

func TestCheckHeaders(t *testing.T) {
	err := Localized.CheckHeaders([]string{"artikelnummer", "Artikelbezeichnung *", "VE"})

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Preis"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "Preis")

	assert.NoError(t, Localized.CheckHeaders([]string{"Artikelnummer", "Artikelbezeichnung", "Preis"}))
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, Generic.IsEmptyRow(models.NewRawRow(map[string]interface{}{
		"Article Number": "  ",
		"Price":          nil,
		"Unmapped":       "value",
	})))
	assert.False(t, Generic.IsEmptyRow(models.NewRawRow(map[string]interface{}{
		"Description": "only a description",
	})))
}
