// internal/puzzle/types.go
//
// Core type definitions for a custom connections puzzle.
// Defines:
//   - WordCategory: a named group of words (one row of the grid).
//   - GameState:    the full puzzle definition submitted by the creator.
//
// Field order matters: it is the order the codec writes into a token.

package puzzle

// Structural limits enforced by Validate.
const (
	MinRows         = 2
	MaxRows         = 10
	MinCategorySize = 2
	MaxCategorySize = 10
	MinTextLen      = 1
	MaxTextLen      = 20
)

// WordCategory is a named group of words. WordArray keeps display order.
type WordCategory struct {
	WordArray    []string `json:"wordArray"`
	CategoryName string   `json:"categoryName"`
}

// GameState holds a complete puzzle definition.
type GameState struct {
	Categories   []WordCategory `json:"categories"`   // One per row, in row order.
	Rows         int            `json:"rows"`         // Must equal len(Categories).
	CategorySize int            `json:"categorySize"` // Words required per category.
}
