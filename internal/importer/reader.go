package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
)

// preferredSheets are picked over the first sheet when a workbook has them
var preferredSheets = []string{"Products", "Artikel"}

// Sheet is a decoded spreadsheet: its header row and data rows in file order.
// Blank lines are kept so row indexes stay aligned with spreadsheet lines.
type Sheet struct {
	Format  models.ImportFormat
	Headers []string
	Rows    []models.RawRow
}

// DetectFormat picks the reader from the file extension
func DetectFormat(filename string) (models.ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return models.ImportFormatCSV, nil
	case ".xlsx":
		return models.ImportFormatXLSX, nil
	}
	return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedFile)
}

// ReadFile decodes a CSV or XLSX upload based on its file name
func ReadFile(filename string, r io.Reader) (*Sheet, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if format == models.ImportFormatCSV {
		return ReadCSV(r)
	}
	return ReadXLSX(r)
}

// ReadXLSX reads the products sheet of a workbook
func ReadXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	sheetName := sheets[0]
	for _, preferred := range preferredSheets {
		if name, ok := findSheet(sheets, preferred); ok {
			sheetName = name
			break
		}
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	sheet := buildSheet(records)
	sheet.Format = models.ImportFormatXLSX
	return sheet, nil
}

// ReadCSV reads a comma or semicolon separated file
func ReadCSV(r io.Reader) (*Sheet, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4096)

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
	sheet := buildSheet(records)
	sheet.Format = models.ImportFormatCSV
	return sheet, nil
}

func buildSheet(records [][]string) *Sheet {
	sheet := &Sheet{}
	if len(records) == 0 {
		return sheet
	}

	sheet.Headers = make([]string, len(records[0]))
	for i, h := range records[0] {
		sheet.Headers[i] = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), " *")
	}

	data := records[1:]
	// trailing blank lines carry no rows worth reporting
	for len(data) > 0 && blankRecord(data[len(data)-1]) {
		data = data[:len(data)-1]
	}

	sheet.Rows = make([]models.RawRow, 0, len(data))
	for i, record := range data {
		cells := make(map[string]interface{}, len(sheet.Headers))
		for col, value := range record {
			if col < len(sheet.Headers) && sheet.Headers[col] != "" {
				cells[sheet.Headers[col]] = strings.TrimSpace(value)
			}
		}
		sheet.Rows = append(sheet.Rows, models.RawRow{Line: i + 2, Cells: cells})
	}
	return sheet
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func detectDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func findSheet(sheets []string, want string) (string, bool) {
	for _, name := range sheets {
		if strings.EqualFold(name, want) {
			return name, true
		}
	}
	return "", false
}
