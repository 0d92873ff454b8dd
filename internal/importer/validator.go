package importer

import (
	"errors"
	"fmt"

	"catalog-service/internal/models"
)

// Validate checks every row against the mapping and returns one error per
// (row, violated rule). Entirely empty rows are skipped. Row numbers are the
// row index plus 2: the header occupies line 1.
func Validate(rows []models.RawRow, mapping ColumnMapping) []models.ValidationError {
	var errs []models.ValidationError
	for i, row := range rows {
		errs = append(errs, ValidateRow(row, i+2, mapping)...)
	}
	return errs
}

// ValidateRow checks a single row reported under the given spreadsheet line
func ValidateRow(row models.RawRow, line int, mapping ColumnMapping) []models.ValidationError {
	if mapping.IsEmptyRow(row) {
		return nil
	}

	var errs []models.ValidationError
	addError := func(f Field, msg string) {
		errs = append(errs, models.ValidationError{Row: line, Field: string(f), Message: msg})
	}

	if mapping.Value(row, FieldArticleNumber) == "" {
		addError(FieldArticleNumber, "Article number is required")
	}
	if mapping.Value(row, FieldProductName) == "" {
		addError(FieldProductName, "Product name is required")
	}

	raw := mapping.Value(row, FieldPrice)
	if _, err := ParsePrice(raw); err != nil {
		switch {
		case errors.Is(err, ErrEmptyValue):
			addError(FieldPrice, "Price is required")
		case errors.Is(err, ErrNegativeNumber):
			addError(FieldPrice, fmt.Sprintf("Price %q must not be negative", raw))
		default:
			addError(FieldPrice, fmt.Sprintf("Price %q is not a valid number", raw))
		}
	}

	if mapping.CountField != "" {
		if count := mapping.Value(row, mapping.CountField); count != "" {
			if _, err := ParseCount(count); err != nil {
				addError(mapping.CountField, fmt.Sprintf("%s %q must be a whole number", mapping.Column(mapping.CountField), count))
			}
		}
	}

	return errs
}
