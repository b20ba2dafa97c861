// Package gate computes, per category, which access gate currently applies.
// The UI renders the matching badge and intercepts selection; the core only
// answers "which gate, if any".
package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

// Kind is the gate applied to a category.
type Kind int

const (
	// KindNone: the category is playable as-is.
	KindNone Kind = iota
	// KindRequiresPurchase: premium content, no effective entitlement.
	KindRequiresPurchase
	// KindRequiresRatingAction: unlockable by rating the app instead of
	// purchasing.
	KindRequiresRatingAction
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindRequiresPurchase:
		return "REQUIRES_PURCHASE"
	case KindRequiresRatingAction:
		return "REQUIRES_RATING_ACTION"
	}
	return "UNKNOWN"
}

// premiumSource answers the current effective entitlement. Satisfied by the
// entitlement resolver.
type premiumSource interface {
	Effective() bool
}

type stateRepo interface {
	Get(ctx context.Context) (*domain.EntitlementState, error)
	SetRated(ctx context.Context, rated bool) error
}

// Service computes gates from the effective entitlement plus the stored
// has-rated flag.
type Service struct {
	premium      premiumSource
	repo         stateRepo
	log          *slog.Logger
	ratingUnlock string // category name, empty disables rating unlocks
}

func New(log *slog.Logger, premium premiumSource, repo stateRepo, ratingUnlock string) *Service {
	return &Service{
		premium:      premium,
		repo:         repo,
		log:          log.With("service", "gate"),
		ratingUnlock: ratingUnlock,
	}
}

// For returns the gate for one category. A storage failure reading the
// has-rated flag is logged and treated as not-rated, which at worst shows a
// rating gate to someone who already rated.
func (s *Service) For(ctx context.Context, category *domain.Category) Kind {
	if !category.IsPremium {
		return KindNone
	}
	if s.premium.Effective() {
		return KindNone
	}

	if s.ratingUnlock != "" && category.Name == s.ratingUnlock {
		if s.hasRated(ctx) {
			return KindNone
		}
		return KindRequiresRatingAction
	}

	return KindRequiresPurchase
}

// ForAll computes gates for a category listing in one pass, reading the
// has-rated flag at most once.
func (s *Service) ForAll(ctx context.Context, categories []*domain.Category) map[uuid.UUID]Kind {
	gates := make(map[uuid.UUID]Kind, len(categories))
	effective := s.premium.Effective()

	var rated, ratedKnown bool
	for _, c := range categories {
		switch {
		case !c.IsPremium || effective:
			gates[c.ID] = KindNone
		case s.ratingUnlock != "" && c.Name == s.ratingUnlock:
			if !ratedKnown {
				rated = s.hasRated(ctx)
				ratedKnown = true
			}
			if rated {
				gates[c.ID] = KindNone
			} else {
				gates[c.ID] = KindRequiresRatingAction
			}
		default:
			gates[c.ID] = KindRequiresPurchase
		}
	}
	return gates
}

// MarkRated records that the rating action happened. Idempotent.
func (s *Service) MarkRated(ctx context.Context) error {
	if err := s.repo.SetRated(ctx, true); err != nil {
		return fmt.Errorf("set rated flag: %w", err)
	}
	return nil
}

func (s *Service) hasRated(ctx context.Context) bool {
	state, err := s.repo.Get(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "load rated flag",
			slog.String("error", err.Error()),
		)
		return false
	}
	return state.HasRated
}
