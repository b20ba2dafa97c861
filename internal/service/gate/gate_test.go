package gate

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

type premiumSourceMock struct {
	effective bool
}

func (m *premiumSourceMock) Effective() bool { return m.effective }

type stateRepoMock struct {
	state    domain.EntitlementState
	getErr   error
	setCalls []bool
}

func (m *stateRepoMock) Get(ctx context.Context) (*domain.EntitlementState, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.state
	return &s, nil
}

func (m *stateRepoMock) SetRated(ctx context.Context, rated bool) error {
	m.setCalls = append(m.setCalls, rated)
	return nil
}

func category(name string, premium bool) *domain.Category {
	return &domain.Category{ID: uuid.New(), Name: name, IsPremium: premium}
}

func TestService_For(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		category  *domain.Category
		effective bool
		hasRated  bool
		want      Kind
	}{
		{
			name:     "free category is never gated",
			category: category("Icebreakers", false),
			want:     KindNone,
		},
		{
			name:      "premium entitlement clears every gate",
			category:  category("After Dark", true),
			effective: true,
			want:      KindNone,
		},
		{
			name:     "premium without entitlement requires purchase",
			category: category("After Dark", true),
			want:     KindRequiresPurchase,
		},
		{
			name:     "rating-unlockable category asks for a rating",
			category: category("Deep Talk", true),
			want:     KindRequiresRatingAction,
		},
		{
			name:     "rated user passes the rating gate",
			category: category("Deep Talk", true),
			hasRated: true,
			want:     KindNone,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := New(
				slog.Default(),
				&premiumSourceMock{effective: tt.effective},
				&stateRepoMock{state: domain.EntitlementState{HasRated: tt.hasRated}},
				"Deep Talk",
			)

			if got := svc.For(context.Background(), tt.category); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestService_For_DisabledRatingUnlock(t *testing.T) {
	t.Parallel()
	svc := New(slog.Default(), &premiumSourceMock{}, &stateRepoMock{}, "")

	if got := svc.For(context.Background(), category("Deep Talk", true)); got != KindRequiresPurchase {
		t.Errorf("got %s, want REQUIRES_PURCHASE", got)
	}
}

func TestService_For_RepoFailureMeansNotRated(t *testing.T) {
	t.Parallel()
	repo := &stateRepoMock{getErr: errors.New("database is locked")}
	svc := New(slog.Default(), &premiumSourceMock{}, repo, "Deep Talk")

	if got := svc.For(context.Background(), category("Deep Talk", true)); got != KindRequiresRatingAction {
		t.Errorf("got %s, want REQUIRES_RATING_ACTION", got)
	}
}

func TestService_ForAll(t *testing.T) {
	t.Parallel()

	free := category("Icebreakers", false)
	purchase := category("After Dark", true)
	rating := category("Deep Talk", true)

	svc := New(slog.Default(), &premiumSourceMock{}, &stateRepoMock{}, "Deep Talk")

	gates := svc.ForAll(context.Background(), []*domain.Category{free, purchase, rating})

	if gates[free.ID] != KindNone {
		t.Errorf("free: got %s, want NONE", gates[free.ID])
	}
	if gates[purchase.ID] != KindRequiresPurchase {
		t.Errorf("purchase: got %s, want REQUIRES_PURCHASE", gates[purchase.ID])
	}
	if gates[rating.ID] != KindRequiresRatingAction {
		t.Errorf("rating: got %s, want REQUIRES_RATING_ACTION", gates[rating.ID])
	}
}

func TestService_MarkRated(t *testing.T) {
	t.Parallel()
	repo := &stateRepoMock{}
	svc := New(slog.Default(), &premiumSourceMock{}, repo, "Deep Talk")

	if err := svc.MarkRated(context.Background()); err != nil {
		t.Fatalf("MarkRated: unexpected error: %v", err)
	}
	if len(repo.setCalls) != 1 || !repo.setCalls[0] {
		t.Error("expected SetRated(true)")
	}
}
