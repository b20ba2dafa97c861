package session

import (
	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

// StartInput carries the parameters for starting a new play session.
type StartInput struct {
	CategoryID  uuid.UUID
	PlayerCount int
	Shuffle     bool
}

// Validate checks structural constraints. maxPlayers comes from config.
func (in StartInput) Validate(maxPlayers int) error {
	if in.CategoryID == uuid.Nil {
		return domain.NewValidationError("category_id", "is required")
	}
	if in.PlayerCount < 1 {
		return domain.NewValidationError("player_count", "must be at least 1")
	}
	if maxPlayers > 0 && in.PlayerCount > maxPlayers {
		return domain.NewValidationError("player_count", "exceeds the supported maximum")
	}
	return nil
}
