package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

func TestReadCSV_Semicolon(t *testing.T) {
	data := "Artikelnummer;Artikelbezeichnung *;Preis;VE\n" +
		"DV-1;Aquarellpinsel Gr. 2;3,20;6\n" +
		";;;\n" +
		"DV-2;Aquarellpinsel Gr. 4;4,10;6\n" +
		"\n"

	sheet, err := ReadCSV(strings.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, models.ImportFormatCSV, sheet.Format)
	assert.Equal(t, []string{"Artikelnummer", "Artikelbezeichnung", "Preis", "VE"}, sheet.Headers)
	require.Len(t, sheet.Rows, 3, "interior blank lines are kept")
	assert.Equal(t, 2, sheet.Rows[0].Line)
	assert.Equal(t, "3,20", sheet.Rows[0].Value("Preis"))
	assert.True(t, Localized.IsEmptyRow(sheet.Rows[1]))
	assert.Equal(t, 4, sheet.Rows[2].Line)
}

func TestReadCSV_CommaAndBOM(t *testing.T) {
	data := "\ufeffArticle Number,Product Name,Price\nA-1,\"Blue Paint, 10ml\",10.00\n"

	sheet, err := ReadCSV(strings.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, "Article Number", sheet.Headers[0])
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Blue Paint, 10ml", sheet.Rows[0].Value("Product Name"))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Products"))
	require.NoError(t, f.SetSheetRow("Products", "A1", &[]interface{}{"Article Number", "Product Name", "Price"}))
	require.NoError(t, f.SetSheetRow("Products", "A2", &[]interface{}{"A-1", "Blue Paint 10ml", "10.00"}))
	require.NoError(t, f.SetSheetRow("Products", "A4", &[]interface{}{"A-2", "Blue Paint 20ml", "14.50"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := ReadFile("upload.XLSX", &buf)

	require.NoError(t, err)
	assert.Equal(t, models.ImportFormatXLSX, sheet.Format)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "A-1", sheet.Rows[0].Value("Article Number"))
	assert.True(t, Generic.IsEmptyRow(sheet.Rows[1]))
	assert.Equal(t, 4, sheet.Rows[2].Line)
	assert.Equal(t, "Blue Paint 20ml", sheet.Rows[2].Value("product name"))
}

func TestReadFile_UnsupportedFormat(t *testing.T) {
	_, err := ReadFile("products.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestXLSXTemplateRoundTrip(t *testing.T) {
	tmpl := TemplateFor(Localized)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSXTemplate(&buf, tmpl))

	sheet, err := ReadXLSX(&buf)

	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
	assert.NoError(t, Localized.CheckHeaders(sheet.Headers))
}

func TestTemplateFor(t *testing.T) {
	tmpl := TemplateFor(Localized)

	require.GreaterOrEqual(t, len(tmpl.Columns), 3)
	assert.Equal(t, "Artikelnummer", tmpl.Columns[0].Name)
	assert.True(t, tmpl.Columns[0].Required)
	assert.Equal(t, "Preis", tmpl.Columns[2].Name)
	for _, col := range tmpl.Columns[3:] {
		assert.False(t, col.Required, col.Name)
		if col.Field == string(FieldStockIndicator) {
			assert.Equal(t, "integer", col.Type)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSVTemplate(&buf, tmpl))
	assert.True(t, strings.HasPrefix(buf.String(), "Artikelnummer,Artikelbezeichnung,Preis,"))
}
