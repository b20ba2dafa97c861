// Package session implements the play-session tracker: it drives one
// Session through its lifecycle and exposes the currently visible card plus
// a short lookahead window for stack-style rendering.
//
// The tracker is UI-thread-affine by contract: callers issue one mutation at
// a time and await completion before the next. There is no internal locking
// or queueing.
package session

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

type cardRepo interface {
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error)
	List(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error)
	ResetCompletion(ctx context.Context, categoryID uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
}

type sessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	Update(ctx context.Context, s *domain.Session) error
	GetMostRecentRestorable(ctx context.Context) (*domain.Session, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Session, int, error)
	StatsByCategory(ctx context.Context, categoryID uuid.UUID) (domain.PlayStats, error)
}

type categoryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

// Tracker owns the lifecycle of a single play-through of a card category.
//
// Mutations other than Start are deliberately non-throwing: with no current
// session they are no-ops, and persistence failures are logged and surfaced
// through LastError while the in-memory state keeps the applied change. A
// failed save can therefore leave memory and storage divergent until the
// next successful save.
type Tracker struct {
	cards      cardRepo
	sessions   sessionRepo
	categories categoryRepo
	log        *slog.Logger
	clock      func() time.Time
	perm       func(n int) []int
	lookahead  int
	maxPlayers int

	current *domain.Session
	deck    []*domain.Card // session category's cards in canonical order
	lastErr string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithPerm overrides the permutation source (tests).
func WithPerm(perm func(n int) []int) Option {
	return func(t *Tracker) { t.perm = perm }
}

// WithMaxPlayers caps the accepted player count.
func WithMaxPlayers(n int) Option {
	return func(t *Tracker) { t.maxPlayers = n }
}

// NewTracker creates a session tracker. lookahead is the size of the
// upcoming-cards window (ignored when < 1).
func NewTracker(log *slog.Logger, cards cardRepo, sessions sessionRepo, categories categoryRepo, lookahead int, opts ...Option) *Tracker {
	t := &Tracker{
		cards:      cards,
		sessions:   sessions,
		categories: categories,
		log:        log.With("service", "session"),
		clock:      time.Now,
		perm:       rand.Perm,
		lookahead:  lookahead,
		maxPlayers: 12,
	}
	if t.lookahead < 1 {
		t.lookahead = 4
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Current returns the session being tracked, or nil.
func (t *Tracker) Current() *domain.Session {
	return t.current
}

// LastError returns the most recent swallowed persistence error message,
// empty when the last save succeeded. The UI may choose to display it.
func (t *Tracker) LastError() string {
	return t.lastErr
}

// save persists the current session, honoring the non-throwing contract:
// failures are logged and recorded, never returned, and the in-memory state
// is not rolled back.
func (t *Tracker) save(ctx context.Context) {
	if err := t.sessions.Update(ctx, t.current); err != nil {
		t.lastErr = err.Error()
		t.log.ErrorContext(ctx, "save session",
			slog.String("session_id", t.current.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	t.lastErr = ""
}
