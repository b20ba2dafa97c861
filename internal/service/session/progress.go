package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

// CurrentCard returns the card at the logical current position, after
// applying the shuffle permutation. Nil without a session.
func (t *Tracker) CurrentCard() *domain.Card {
	if t.current == nil || len(t.deck) == 0 {
		return nil
	}

	idx := t.current.UnderlyingIndex(t.current.CurrentIndex)
	if idx < 0 || idx >= len(t.deck) {
		return nil
	}
	return t.deck[idx]
}

// Upcoming returns up to lookahead cards at logical positions
// [current, current+lookahead), clipped to bounds, for stack rendering.
// The visible card is the first element.
func (t *Tracker) Upcoming() []*domain.Card {
	if t.current == nil || len(t.deck) == 0 {
		return nil
	}

	var window []*domain.Card
	for logical := t.current.CurrentIndex; logical < t.current.CurrentIndex+t.lookahead && logical < len(t.deck); logical++ {
		idx := t.current.UnderlyingIndex(logical)
		if idx < 0 || idx >= len(t.deck) {
			continue
		}
		window = append(window, t.deck[idx])
	}
	return window
}

// Progress returns completed-count over category size in [0, 1].
// Zero when no session is tracked or the category is empty.
func (t *Tracker) Progress() float64 {
	if t.current == nil || len(t.deck) == 0 {
		return 0
	}
	return float64(len(t.current.Completed)) / float64(len(t.deck))
}

// Remaining returns the number of cards not yet completed.
func (t *Tracker) Remaining() int {
	if t.current == nil {
		return 0
	}
	return len(t.deck) - len(t.current.Completed)
}

// Elapsed returns play time so far: live while running, frozen once the
// session ended or paused.
func (t *Tracker) Elapsed() time.Duration {
	if t.current == nil {
		return 0
	}
	return t.current.Duration(t.clock())
}

// FormatElapsed renders the elapsed duration as mm:ss, or h:mm:ss past the
// first hour.
func (t *Tracker) FormatElapsed() string {
	d := t.Elapsed().Round(time.Second)

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// History returns recent sessions, newest first, with the total count.
func (t *Tracker) History(ctx context.Context, limit, offset int) ([]*domain.Session, int, error) {
	sessions, total, err := t.sessions.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list session history: %w", err)
	}
	return sessions, total, nil
}

// Stats returns aggregated play statistics for one category.
func (t *Tracker) Stats(ctx context.Context, categoryID uuid.UUID) (domain.PlayStats, error) {
	stats, err := t.sessions.StatsByCategory(ctx, categoryID)
	if err != nil {
		return domain.PlayStats{}, fmt.Errorf("category stats: %w", err)
	}
	return stats, nil
}
