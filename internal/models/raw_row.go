package models

import (
	"strings"

	"github.com/spf13/cast"
)

// RawRow is one untyped spreadsheet record: column name to cell value.
// Cell values are strings, numbers or nil.
type RawRow struct {
	Line  int                    `json:"line,omitempty"`
	Cells map[string]interface{} `json:"cells"`
}

// NewRawRow wraps a cell map without a known spreadsheet line
func NewRawRow(cells map[string]interface{}) RawRow {
	return RawRow{Cells: cells}
}

// Value returns the trimmed string form of a cell, or "" when the column is absent.
// Column names match exactly first, then case-insensitively after trimming.
func (r RawRow) Value(column string) string {
	if column == "" || r.Cells == nil {
		return ""
	}
	raw, ok := r.Cells[column]
	if !ok {
		want := normalizeColumn(column)
		for name, value := range r.Cells {
			if normalizeColumn(name) == want {
				raw, ok = value, true
				break
			}
		}
	}
	if !ok || raw == nil {
		return ""
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Has reports whether the column holds a non-blank value
func (r RawRow) Has(column string) bool {
	return r.Value(column) != ""
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), " *"))
}
