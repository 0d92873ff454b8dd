package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeDecimal turns a decimal comma into a decimal point
func NormalizeDecimal(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
}

// ParsePrice parses a spreadsheet price such as "12,50" or "12.50".
// Zero is valid; negative and non-finite values are not.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := NormalizeDecimal(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrInvalidNumber)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrNegativeNumber)
	}
	return d, nil
}

// ParseCount parses an integer after stripping internal whitespace ("1 000" is 1000)
func ParseCount(raw string) (int, error) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return 0, ErrEmptyValue
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidInteger)
	}
	return n, nil
}
