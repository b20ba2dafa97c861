package domain

import "github.com/google/uuid"

// CardFilter narrows card listings. Nil fields are ignored.
type CardFilter struct {
	CategoryID *uuid.UUID
	Favorite   *bool
	Difficulty *int
}
