// internal/puzzle/strict.go
//
// Optional content checks layered on top of Validate.
// These mirror what the creator UI enforces before submitting:
//   - no word appears twice anywhere in the grid (case and surrounding
//     space ignored), so tiles stay unambiguous;
//   - no two categories share a name;
//   - no word or category name is on the configured blocklist.
//
// Call only on states that already passed Validate.

package puzzle

import "strings"

// Blocklist reports whether a normalized word is disallowed.
type Blocklist interface {
	Contains(word string) bool
}

// Normalize lowercases and trims a word for comparisons.
func Normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// CheckDistinct rejects duplicate words and duplicate category names.
func CheckDistinct(s GameState) error {
	names := make(map[string]struct{}, len(s.Categories))
	seen := make(map[string]string)
	for _, c := range s.Categories {
		if _, dup := names[c.CategoryName]; dup {
			return invalid(FieldCategoryName, "Category name `%s` is used more than once", c.CategoryName)
		}
		names[c.CategoryName] = struct{}{}

		for _, w := range c.WordArray {
			n := Normalize(w)
			if n == "" {
				return invalid(FieldWord, "Word in category `%s` is blank", c.CategoryName)
			}
			if first, dup := seen[n]; dup {
				return invalid(FieldWord, "Word `%s` in category `%s` duplicates a word in category `%s`",
					w, c.CategoryName, first)
			}
			seen[n] = c.CategoryName
		}
	}
	return nil
}

// CheckBlocked rejects names and words found in bl. A nil bl allows everything.
func CheckBlocked(s GameState, bl Blocklist) error {
	if bl == nil {
		return nil
	}
	for _, c := range s.Categories {
		if bl.Contains(Normalize(c.CategoryName)) {
			return invalid(FieldCategoryName, "Category name `%s` is not allowed", c.CategoryName)
		}
		for _, w := range c.WordArray {
			if bl.Contains(Normalize(w)) {
				return invalid(FieldWord, "Word `%s` in category `%s` is not allowed", w, c.CategoryName)
			}
		}
	}
	return nil
}
