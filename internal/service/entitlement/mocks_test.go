package entitlement

import (
	"context"

	"github.com/jessedraper/partydeck/internal/domain"
)

// Hand-maintained mocks for the consumer-defined interfaces.

type storeClientMock struct {
	ProductsFunc           func(ctx context.Context, ids []string) ([]domain.Product, error)
	EntitlementsFunc       func(ctx context.Context) ([]domain.Entitlement, error)
	PurchaseFunc           func(ctx context.Context, productID string) (*domain.Entitlement, error)
	RestoreFunc            func(ctx context.Context) ([]domain.Entitlement, error)
	TransactionUpdatesFunc func(ctx context.Context) (<-chan domain.Entitlement, error)

	entitlementsCalls int
}

func (m *storeClientMock) Products(ctx context.Context, ids []string) ([]domain.Product, error) {
	return m.ProductsFunc(ctx, ids)
}

func (m *storeClientMock) Entitlements(ctx context.Context) ([]domain.Entitlement, error) {
	m.entitlementsCalls++
	if m.EntitlementsFunc != nil {
		return m.EntitlementsFunc(ctx)
	}
	return nil, nil
}

func (m *storeClientMock) Purchase(ctx context.Context, productID string) (*domain.Entitlement, error) {
	return m.PurchaseFunc(ctx, productID)
}

func (m *storeClientMock) Restore(ctx context.Context) ([]domain.Entitlement, error) {
	return m.RestoreFunc(ctx)
}

func (m *storeClientMock) TransactionUpdates(ctx context.Context) (<-chan domain.Entitlement, error) {
	return m.TransactionUpdatesFunc(ctx)
}

type entitlementRepoMock struct {
	GetFunc  func(ctx context.Context) (*domain.EntitlementState, error)
	SaveFunc func(ctx context.Context, state *domain.EntitlementState) error

	saved []domain.EntitlementState
}

func (m *entitlementRepoMock) Get(ctx context.Context) (*domain.EntitlementState, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return &domain.EntitlementState{}, nil
}

func (m *entitlementRepoMock) Save(ctx context.Context, state *domain.EntitlementState) error {
	m.saved = append(m.saved, *state)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, state)
	}
	return nil
}
