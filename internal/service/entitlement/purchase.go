package entitlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jessedraper/partydeck/internal/domain"
)

// Purchase initiates a purchase of one product. A store or verification
// failure is returned to the caller (the paywall shows it); a verified
// transaction is folded into the cache through the shared reconciliation
// path.
func (r *Resolver) Purchase(ctx context.Context, productID string) error {
	ent, err := r.store.Purchase(ctx, productID)
	if err != nil {
		return fmt.Errorf("purchase %s: %w", productID, err)
	}
	if ent == nil {
		// Cancelled or pending: nothing to fold, nothing to report.
		return nil
	}

	r.log.InfoContext(ctx, "purchase verified",
		slog.String("product_id", ent.ProductID),
		slog.String("kind", ent.Kind.String()),
	)

	// Fold the verified transaction itself rather than refetching: the
	// grant must land even when the store has not propagated it yet.
	r.apply(ctx, []domain.Entitlement{*ent}, nil)
	return nil
}

// Restore replays past purchases from the store. An empty result is a
// legitimate authoritative "no purchases" and clears a stale cached grant,
// per the reconciliation precedence.
func (r *Resolver) Restore(ctx context.Context) error {
	ents, err := r.store.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore purchases: %w", err)
	}

	r.log.InfoContext(ctx, "purchases restored",
		slog.Int("count", len(ents)),
	)

	r.apply(ctx, ents, nil)
	return nil
}
