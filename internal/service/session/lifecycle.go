package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

// Start begins a new play-through of a category.
//
// If a session is already being tracked it is silently replaced: the prior
// session is closed first (end timestamp set, status finalized) before the
// new one begins. This is a deliberate product behavior, not an accident,
// and tests assert the prior session was properly closed.
//
// Returns domain.ErrEmptyCategory when the category holds no cards.
func (t *Tracker) Start(ctx context.Context, in StartInput) (*domain.Session, error) {
	if err := in.Validate(t.maxPlayers); err != nil {
		return nil, err
	}

	if _, err := t.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}

	deck, err := t.cards.ListByCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	if len(deck) == 0 {
		return nil, domain.ErrEmptyCategory
	}

	t.closeCurrent(ctx)

	// Per-session completion flags start clean for the target category.
	if err := t.cards.ResetCompletion(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("reset completion flags: %w", err)
	}
	for _, c := range deck {
		c.Completed = false
	}

	s := &domain.Session{
		ID:          uuid.New(),
		CategoryID:  in.CategoryID,
		PlayerCount: in.PlayerCount,
		Status:      domain.SessionStatusActive,
		StartedAt:   t.clock().UTC(),
		Completed:   make(map[uuid.UUID]struct{}),
	}
	if in.Shuffle {
		s.Shuffle = t.perm(len(deck))
	}

	if err := t.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	t.current = s
	t.deck = deck
	t.lastErr = ""

	t.log.InfoContext(ctx, "session started",
		slog.String("session_id", s.ID.String()),
		slog.String("category_id", in.CategoryID.String()),
		slog.Int("players", in.PlayerCount),
		slog.Bool("shuffled", in.Shuffle),
	)

	return s, nil
}

// closeCurrent finalizes a still-open tracked session before a new one
// replaces it. Completed coverage decides between COMPLETED and ABANDONED.
func (t *Tracker) closeCurrent(ctx context.Context) {
	s := t.current
	if s == nil || (s.Status != domain.SessionStatusActive && s.Status != domain.SessionStatusPaused) {
		return
	}

	now := t.clock().UTC()
	s.EndedAt = &now
	if s.IsComplete(len(t.deck)) {
		s.Status = domain.SessionStatusCompleted
	} else {
		s.Status = domain.SessionStatusAbandoned
	}
	t.save(ctx)

	t.log.InfoContext(ctx, "session replaced",
		slog.String("session_id", s.ID.String()),
		slog.String("status", s.Status.String()),
	)
}

// Advance moves one card forward, clamped at the last card: repeated calls
// at the upper bound are no-ops, not errors.
func (t *Tracker) Advance(ctx context.Context) {
	if t.current == nil {
		return
	}

	if t.current.CurrentIndex < len(t.deck)-1 {
		t.current.CurrentIndex++
		t.save(ctx)
	}

	// Callers detect this transition via Current().Status.
	t.completeIfCovered(ctx)
}

// Retreat moves one card back, clamped at 0.
func (t *Tracker) Retreat(ctx context.Context) {
	if t.current == nil || t.current.CurrentIndex == 0 {
		return
	}
	t.current.CurrentIndex--
	t.save(ctx)
}

// JumpTo sets the logical position, clamped to [0, cardCount-1].
func (t *Tracker) JumpTo(ctx context.Context, index int) {
	if t.current == nil {
		return
	}

	if index < 0 {
		index = 0
	}
	if index > len(t.deck)-1 {
		index = len(t.deck) - 1
	}
	if index == t.current.CurrentIndex {
		return
	}

	t.current.CurrentIndex = index
	t.save(ctx)
}

// MarkCurrentComplete adds the card at the logical current position to the
// completed set (set semantics, so repeated calls are no-ops), bumps its
// usage counter, and sets its per-session flag. When the set then covers the
// whole category the session auto-completes.
func (t *Tracker) MarkCurrentComplete(ctx context.Context) {
	card := t.CurrentCard()
	if card == nil {
		return
	}

	if !t.current.MarkCompleted(card.ID) {
		return
	}
	card.Completed = true
	card.UsageCount++

	if err := t.cards.MarkCompleted(ctx, card.ID); err != nil {
		t.lastErr = err.Error()
		t.log.ErrorContext(ctx, "mark card completed",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()),
		)
	}
	t.save(ctx)

	t.completeIfCovered(ctx)
}

// Shuffle regenerates the permutation and resets the position to 0. The
// completed set survives: shuffling mid-session never loses progress.
func (t *Tracker) Shuffle(ctx context.Context) {
	if t.current == nil {
		return
	}

	t.current.Shuffle = t.perm(len(t.deck))
	t.current.CurrentIndex = 0
	t.save(ctx)
}

// ResetShuffle returns to canonical order and resets the position to 0.
func (t *Tracker) ResetShuffle(ctx context.Context) {
	if t.current == nil {
		return
	}

	t.current.Shuffle = nil
	t.current.CurrentIndex = 0
	t.save(ctx)
}

// Pause suspends the session: the end timestamp freezes the duration, and
// the PAUSED status keeps it distinct from completion and restorable after
// a relaunch.
func (t *Tracker) Pause(ctx context.Context) {
	if t.current == nil || t.current.Status != domain.SessionStatusActive {
		return
	}

	now := t.clock().UTC()
	t.current.Status = domain.SessionStatusPaused
	t.current.EndedAt = &now
	t.save(ctx)
}

// Resume reactivates a paused session and clears the end timestamp.
func (t *Tracker) Resume(ctx context.Context) {
	if t.current == nil || t.current.Status != domain.SessionStatusPaused {
		return
	}

	t.current.Status = domain.SessionStatusActive
	t.current.EndedAt = nil
	t.save(ctx)
}

// Restart clears all progress: completed set, per-session card flags, and
// position. A previously ended session becomes active again.
func (t *Tracker) Restart(ctx context.Context) {
	if t.current == nil {
		return
	}

	if err := t.cards.ResetCompletion(ctx, t.current.CategoryID); err != nil {
		t.lastErr = err.Error()
		t.log.ErrorContext(ctx, "reset completion flags",
			slog.String("category_id", t.current.CategoryID.String()),
			slog.String("error", err.Error()),
		)
	}
	for _, c := range t.deck {
		c.Completed = false
	}

	t.current.Completed = make(map[uuid.UUID]struct{})
	t.current.CurrentIndex = 0
	t.current.Status = domain.SessionStatusActive
	t.current.EndedAt = nil
	t.save(ctx)
}

// RestoreMostRecentActive adopts the most recently started session that is
// still ACTIVE or PAUSED, typically called once after a relaunch. Best
// effort by contract: failures are logged, never returned, and never block
// startup. Returns nil when there is nothing to restore.
func (t *Tracker) RestoreMostRecentActive(ctx context.Context) *domain.Session {
	s, err := t.sessions.GetMostRecentRestorable(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			t.log.WarnContext(ctx, "restore session",
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	deck, err := t.cards.ListByCategory(ctx, s.CategoryID)
	if err != nil || len(deck) == 0 {
		t.log.WarnContext(ctx, "restore session cards",
			slog.String("session_id", s.ID.String()),
		)
		return nil
	}

	// Clamp against the stored deck in case the card set changed since.
	if s.CurrentIndex > len(deck)-1 {
		s.CurrentIndex = len(deck) - 1
	}
	if s.CurrentIndex < 0 {
		s.CurrentIndex = 0
	}

	t.current = s
	t.deck = deck

	t.log.InfoContext(ctx, "session restored",
		slog.String("session_id", s.ID.String()),
		slog.String("status", s.Status.String()),
	)

	return s
}

// completeIfCovered ends the session once the completed set covers the
// category.
func (t *Tracker) completeIfCovered(ctx context.Context) {
	s := t.current
	if s == nil || s.Status != domain.SessionStatusActive || !s.IsComplete(len(t.deck)) {
		return
	}

	now := t.clock().UTC()
	s.Status = domain.SessionStatusCompleted
	s.EndedAt = &now
	t.save(ctx)

	t.log.InfoContext(ctx, "session completed",
		slog.String("session_id", s.ID.String()),
	)
}
