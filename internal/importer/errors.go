package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyValue      = errors.New("value is empty")
	ErrInvalidNumber   = errors.New("not a valid number")
	ErrNegativeNumber  = errors.New("must not be negative")
	ErrInvalidInteger  = errors.New("not a valid integer")
	ErrUnsupportedFile = errors.New("unsupported file format")
)

// SchemaError is a fatal pre-flight error: the column mapping is unknown or the
// sheet is missing columns the mapping requires.
type SchemaError struct {
	Schema  string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("unknown column mapping %q", e.Schema)
	}
	return fmt.Sprintf("column mapping %q: missing required columns: %s", e.Schema, strings.Join(e.Missing, ", "))
}
