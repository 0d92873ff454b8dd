package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

const templateVersion = "1.0"

type fieldInfo struct {
	kind        string
	description string
	example     string
}

var fieldInfos = map[Field]fieldInfo{
	FieldArticleNumber:  {"string", "Unique supplier article number", "DV-36-04"},
	FieldProductName:    {"string", "Full product name including size or colour", "Aquarellpinsel Serie 36 Gr. 4"},
	FieldPrice:          {"number", "Unit price, decimal comma or point", "12,50"},
	FieldDescription:    {"string", "Free-text description", "Kolinsky sable, round"},
	FieldStockIndicator: {"integer", "Stock or packaging unit", "6"},
	FieldCategory:       {"string", "Category; classified from the name when blank", "Brushes"},
	FieldSubcategory:    {"string", "Subcategory; classified from the name when blank", "Watercolor Brushes"},
	FieldSupplier:       {"string", "Manufacturer or supplier", "da Vinci"},
	FieldEAN:            {"string", "EAN barcode", "4009078360045"},
	FieldImageURL:       {"string", "Product image URL", "https://example.com/dv-36-04.jpg"},
	FieldVariantType:    {"string", "Variant dimension such as size or colour", "size"},
}

// TemplateFor describes the columns a spreadsheet must carry for a mapping.
// Required columns come first, then optional ones in field order.
func TemplateFor(mapping ColumnMapping) models.ImportTemplate {
	tmpl := models.ImportTemplate{Schema: mapping.Name, Version: templateVersion}
	add := func(f Field, required bool) {
		column := mapping.Column(f)
		if column == "" {
			return
		}
		info := fieldInfos[f]
		kind := info.kind
		if f == mapping.CountField {
			kind = "integer"
		}
		tmpl.Columns = append(tmpl.Columns, models.ImportTemplateColumn{
			Name:     column,
			Field:    string(f),
			Required: required,
			Type:     kind,
			Example:  info.example,
		})
	}
	for _, f := range RequiredFields {
		add(f, true)
	}
	for _, f := range KnownFields {
		if !isRequired(f) {
			add(f, false)
		}
	}
	return tmpl
}

// WriteCSVTemplate writes the header row of the template
func WriteCSVTemplate(w io.Writer, tmpl models.ImportTemplate) error {
	writer := csv.NewWriter(w)
	headers := make([]string, len(tmpl.Columns))
	for i, col := range tmpl.Columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSXTemplate writes a workbook with a header-only Products sheet and an
// Instructions sheet. Required headers are marked with " *".
func WriteXLSXTemplate(w io.Writer, tmpl models.ImportTemplate) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}

	for i, col := range tmpl.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		header, style := col.Name, headerStyle
		if col.Required {
			header, style = col.Name+" *", requiredStyle
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	const instructions = "Instructions"
	if _, err := f.NewSheet(instructions); err != nil {
		return err
	}
	f.SetCellValue(instructions, "A1", fmt.Sprintf("Catalog import (%s layout, v%s)", tmpl.Schema, tmpl.Version))
	f.SetCellValue(instructions, "A3", "Rows with the same leading words are grouped into one master product.")
	f.SetCellValue(instructions, "A4", "Existing article numbers are updated, new ones are created.")
	for i, h := range []string{"Column", "Description", "Required", "Type", "Example"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 6)
		f.SetCellValue(instructions, cell, h)
	}
	for i, col := range tmpl.Columns {
		row := i + 7
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue(instructions, fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue(instructions, fmt.Sprintf("B%d", row), fieldInfos[Field(col.Field)].description)
		f.SetCellValue(instructions, fmt.Sprintf("C%d", row), required)
		f.SetCellValue(instructions, fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue(instructions, fmt.Sprintf("E%d", row), col.Example)
	}
	f.SetColWidth(instructions, "A", "A", 25)
	f.SetColWidth(instructions, "B", "B", 55)
	f.SetColWidth(instructions, "C", "D", 12)
	f.SetColWidth(instructions, "E", "E", 40)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	return f.Write(w)
}

func isRequired(f Field) bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}
