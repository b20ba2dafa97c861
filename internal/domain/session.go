package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one play-through of a single category.
//
// CurrentIndex is the logical position the player is looking at; with a
// shuffle permutation in place the underlying card slot is
// Shuffle[CurrentIndex]. Completed holds card IDs with set semantics, so
// insertion order carries no meaning.
type Session struct {
	ID           uuid.UUID
	CategoryID   uuid.UUID
	CurrentIndex int
	Completed    map[uuid.UUID]struct{}
	Shuffle      []int // nil when playing in canonical order
	PlayerCount  int
	Status       SessionStatus
	StartedAt    time.Time
	EndedAt      *time.Time // nil while the session has not ended or paused
}

// IsComplete reports whether the completed set covers the whole category.
func (s *Session) IsComplete(cardCount int) bool {
	return cardCount > 0 && len(s.Completed) >= cardCount
}

// UnderlyingIndex maps a logical position to the underlying card slot,
// applying the shuffle permutation when one is set. Out-of-range logical
// positions are returned unchanged; callers clamp before mapping.
func (s *Session) UnderlyingIndex(logical int) int {
	if s.Shuffle == nil || logical < 0 || logical >= len(s.Shuffle) {
		return logical
	}
	return s.Shuffle[logical]
}

// Duration returns elapsed play time: now minus start while the session is
// running, otherwise the frozen span up to EndedAt.
func (s *Session) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// MarkCompleted adds a card to the completed set. Returns false if the card
// was already present.
func (s *Session) MarkCompleted(cardID uuid.UUID) bool {
	if s.Completed == nil {
		s.Completed = make(map[uuid.UUID]struct{})
	}
	if _, ok := s.Completed[cardID]; ok {
		return false
	}
	s.Completed[cardID] = struct{}{}
	return true
}

// CompletedIDs returns the completed set as a slice (unspecified order).
func (s *Session) CompletedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Completed))
	for id := range s.Completed {
		ids = append(ids, id)
	}
	return ids
}

// PlayStats holds aggregated per-category play statistics.
type PlayStats struct {
	CategoryID   uuid.UUID
	TimesPlayed  int
	TimesDone    int
	LastPlayedAt *time.Time
}
