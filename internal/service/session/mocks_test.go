package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

// Hand-maintained mocks for the consumer-defined repo interfaces.

type cardRepoMock struct {
	ListByCategoryFunc  func(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error)
	ListFunc            func(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error)
	ResetCompletionFunc func(ctx context.Context, categoryID uuid.UUID) error
	MarkCompletedFunc   func(ctx context.Context, id uuid.UUID) error
	SetFavoriteFunc     func(ctx context.Context, id uuid.UUID, favorite bool) error

	resetCompletionCalls []uuid.UUID
	markCompletedCalls   []uuid.UUID
	setFavoriteCalls     []bool
}

func (m *cardRepoMock) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error) {
	return m.ListByCategoryFunc(ctx, categoryID)
}

func (m *cardRepoMock) ResetCompletion(ctx context.Context, categoryID uuid.UUID) error {
	m.resetCompletionCalls = append(m.resetCompletionCalls, categoryID)
	if m.ResetCompletionFunc != nil {
		return m.ResetCompletionFunc(ctx, categoryID)
	}
	return nil
}

func (m *cardRepoMock) List(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error) {
	return m.ListFunc(ctx, filter)
}

func (m *cardRepoMock) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	m.setFavoriteCalls = append(m.setFavoriteCalls, favorite)
	if m.SetFavoriteFunc != nil {
		return m.SetFavoriteFunc(ctx, id, favorite)
	}
	return nil
}

func (m *cardRepoMock) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	m.markCompletedCalls = append(m.markCompletedCalls, id)
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, id)
	}
	return nil
}

type sessionRepoMock struct {
	CreateFunc                  func(ctx context.Context, s *domain.Session) error
	UpdateFunc                  func(ctx context.Context, s *domain.Session) error
	GetMostRecentRestorableFunc func(ctx context.Context) (*domain.Session, error)
	ListFunc                    func(ctx context.Context, limit, offset int) ([]*domain.Session, int, error)
	StatsByCategoryFunc         func(ctx context.Context, categoryID uuid.UUID) (domain.PlayStats, error)

	created []*domain.Session
	updated []*domain.Session
}

func (m *sessionRepoMock) Create(ctx context.Context, s *domain.Session) error {
	m.created = append(m.created, s)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *sessionRepoMock) Update(ctx context.Context, s *domain.Session) error {
	m.updated = append(m.updated, s)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, s)
	}
	return nil
}

func (m *sessionRepoMock) GetMostRecentRestorable(ctx context.Context) (*domain.Session, error) {
	if m.GetMostRecentRestorableFunc != nil {
		return m.GetMostRecentRestorableFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *sessionRepoMock) List(ctx context.Context, limit, offset int) ([]*domain.Session, int, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *sessionRepoMock) StatsByCategory(ctx context.Context, categoryID uuid.UUID) (domain.PlayStats, error) {
	return m.StatsByCategoryFunc(ctx, categoryID)
}

type categoryRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

func (m *categoryRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Category{ID: id, Name: "Test"}, nil
}
