package domain

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty bounds for a card (inclusive).
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Card is a single prompt belonging to one category.
//
// Completed is scoped to the current session only and is reset when a new
// session starts for the card's category. UsageCount and Favorite persist
// across sessions indefinitely.
type Card struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Position   int // unique within the category, contiguous from 1 in canonical order
	Text       string
	Completed  bool
	UsageCount int
	Favorite   bool
	Difficulty int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
