package errors

import (
	"math"
	"unicode"
)

// MaxScenarioItems bounds the collection size a scenario may declare.
const MaxScenarioItems = 1_000_000

// MaxSpan bounds row and column span hints.
const MaxSpan = 64

// ValidatePath validates a local file path given on the command line.
// Relative paths, including ones that climb out of the working directory,
// are accepted.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateDimension checks that v is a finite, non-negative length. name is
// used in the error message.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidatePositive checks that v is finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if err := ValidateDimension(name, v); err != nil {
		return err
	}
	if v == 0 {
		return New(ErrCodeInvalidInput, "%s must be positive", name)
	}
	return nil
}

// ValidateSpan checks a row or column span hint. Zero means "use the
// default" and is accepted.
func ValidateSpan(name string, span int) error {
	if span < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative (got %d)", name, span)
	}
	if span > MaxSpan {
		return New(ErrCodeInvalidInput, "%s too large (max %d)", name, MaxSpan)
	}
	return nil
}

// ValidateItemCount checks a declared collection size.
func ValidateItemCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidScenario, "item count cannot be negative (got %d)", n)
	}
	if n > MaxScenarioItems {
		return New(ErrCodeInvalidScenario, "too many items (max %d)", MaxScenarioItems)
	}
	return nil
}

// ValidateIndex checks that index addresses one of n items, or the end of
// the collection when inclusiveEnd is set.
func ValidateIndex(index, n int, inclusiveEnd bool) error {
	limit := n
	if inclusiveEnd {
		limit = n + 1
	}
	if index < 0 || index >= limit {
		return New(ErrCodeInvalidScenario, "index %d out of range [0,%d)", index, limit)
	}
	return nil
}
