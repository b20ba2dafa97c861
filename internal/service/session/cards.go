package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jessedraper/partydeck/internal/domain"
)

// ToggleCurrentFavorite flips the favorite flag on the visible card.
// Favorites persist across sessions, unlike per-session completion flags.
// Non-throwing like the other mid-session mutations.
func (t *Tracker) ToggleCurrentFavorite(ctx context.Context) {
	card := t.CurrentCard()
	if card == nil {
		return
	}

	card.Favorite = !card.Favorite
	if err := t.cards.SetFavorite(ctx, card.ID, card.Favorite); err != nil {
		t.lastErr = err.Error()
		t.log.ErrorContext(ctx, "set favorite",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	t.lastErr = ""
}

// Cards returns cards matching the filter in canonical order, independent
// of any running session. Used for browsing favorites and difficulty tiers.
func (t *Tracker) Cards(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error) {
	cards, err := t.cards.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}
