package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds column and group names read from datasets.
const maxNameLength = 256

// ValidateColumnName validates a column name declared by a dataset.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - No dots, which separate group levels in path strings
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "column name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidDataset, "column name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "column name %q contains control characters", name)
		}
	}

	if strings.Contains(name, ".") {
		return New(ErrCodeInvalidDataset, "column name %q cannot contain '.'", name)
	}

	return nil
}

// ValidateHeight validates a viewport or row height in pixels.
// Heights must be finite and strictly positive.
func ValidateHeight(what string, h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", what, h)
	}
	if h <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", what, h)
	}
	return nil
}

// ValidateRange validates a numeric column range [lo, hi].
func ValidateRange(column string, lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return New(ErrCodeInvalidDataset, "column %q: range must be finite", column)
	}
	if lo >= hi {
		return New(ErrCodeInvalidDataset, "column %q: range min %v must be below max %v", column, lo, hi)
	}
	return nil
}
