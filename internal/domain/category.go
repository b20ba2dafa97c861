package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is an immutable (post-import) named grouping of cards.
// Every card belongs to exactly one category.
type Category struct {
	ID        uuid.UUID
	Name      string
	Position  int
	IsPremium bool
	CardCount int
	CreatedAt time.Time
}
