package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMarks coerces a marks field that arrived as text into an exact
// decimal. Evaluators write values like "8", "7.5" or " 10 "; anything
// that is not a plain number is an error, never silently zeroed.
func ParseMarks(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("marks value is empty")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("marks value %q is not numeric: %w", s, err)
	}
	return d, nil
}
