// internal/puzzle/validate.go
//
// Structural validation of a submitted puzzle.
//
// Validation rules, checked in this order (the first violation is reported):
//   1. Every category name and every word is valid UTF-8 and 1–20 characters.
//   2. Rows is within 2–10.
//   3. CategorySize is within 2–10.
//   4. The number of categories equals Rows.
//   5. Every category holds exactly CategorySize words.
//
// Lengths are counted in characters (runes), not bytes.
// Validate never looks at what the words mean.

package puzzle

import (
	"fmt"
	"unicode/utf8"
)

// Field names reported by ValidationError.
const (
	FieldCategoryName = "categoryName"
	FieldWord         = "wordArray"
	FieldRows         = "rows"
	FieldCategorySize = "categorySize"
	FieldCategories   = "categories"
)

// ValidationError describes the first structural violation found in a GameState.
// Message is safe to show to the client as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks s against the structural rules above.
// Returns nil when s is well-formed, otherwise a *ValidationError.
func Validate(s GameState) error {
	for _, c := range s.Categories {
		if !utf8.ValidString(c.CategoryName) {
			return invalid(FieldCategoryName, "Category name `%s` is not valid UTF-8", c.CategoryName)
		}
		if n := utf8.RuneCountInString(c.CategoryName); !textLenOK(n) {
			return invalid(FieldCategoryName,
				"Category name `%s` not a good length (%d chars, max %d min %d)",
				c.CategoryName, n, MaxTextLen, MinTextLen)
		}
		for _, w := range c.WordArray {
			if !utf8.ValidString(w) {
				return invalid(FieldWord, "Word `%s` in category `%s` is not valid UTF-8", w, c.CategoryName)
			}
			if n := utf8.RuneCountInString(w); !textLenOK(n) {
				return invalid(FieldWord,
					"Word `%s` in category `%s` not a good length (%d chars, max %d min %d)",
					w, c.CategoryName, n, MaxTextLen, MinTextLen)
			}
		}
	}

	if s.Rows < MinRows || s.Rows > MaxRows {
		return invalid(FieldRows, "Number of rows `%d` is out of range (%d-%d)", s.Rows, MinRows, MaxRows)
	}
	if s.CategorySize < MinCategorySize || s.CategorySize > MaxCategorySize {
		return invalid(FieldCategorySize, "Category size `%d` is out of range (%d-%d)",
			s.CategorySize, MinCategorySize, MaxCategorySize)
	}

	if len(s.Categories) != s.Rows {
		return invalid(FieldCategories, "Number of categories `%d` does not match number of rows `%d`",
			len(s.Categories), s.Rows)
	}
	for _, c := range s.Categories {
		if len(c.WordArray) != s.CategorySize {
			return invalid(FieldWord, "Category `%s` has %d words, expected %d",
				c.CategoryName, len(c.WordArray), s.CategorySize)
		}
	}
	return nil
}

func textLenOK(n int) bool { return n >= MinTextLen && n <= MaxTextLen }
