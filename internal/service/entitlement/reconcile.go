package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/jessedraper/partydeck/internal/domain"
)

// Reconcile queries the remote store and resolves it against the cache.
// Invoked once at launch, after purchase and restore actions, and per
// listener event; it is also the manual retry out of the Failed state.
//
// Precedence, in order:
//  1. at least one currently-valid remote entitlement: premium, always;
//  2. reachable remote with no valid entitlement: not premium, and the
//     cache is rewritten to false (an authoritative "no" beats a stale
//     cached "yes");
//  3. remote unreachable: fall back to the cached row's effective value,
//     leaving the stored row untouched (a fetch failure must not revoke
//     premium from an offline user).
//
// Never returns an error: persistence and network failures are logged, and
// the returned in-process answer still follows the precedence above.
func (r *Resolver) Reconcile(ctx context.Context) bool {
	r.setLoading()

	ents, err := r.store.Entitlements(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "entitlement fetch failed",
			slog.String("error", err.Error()),
		)
	}
	return r.apply(ctx, ents, err)
}

func (r *Resolver) setLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateLoading
}

// apply runs the precedence algorithm over one remote answer (or failure)
// and persists the outcome. Purchase, restore, and listener events all
// funnel through here so that "just purchased" and "relaunched" cannot
// diverge.
func (r *Resolver) apply(ctx context.Context, ents []domain.Entitlement, fetchErr error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock().UTC()
	r.loadCacheLocked(ctx)

	if fetchErr != nil {
		r.state = StateFailed
		r.premium = r.cached.Effective(now)
		return r.premium
	}

	r.state = StateReady
	r.catalogEmpty = len(ents) == 0

	if grant := pickGrant(ents, now); grant != nil {
		r.premium = true
		r.cached.Premium = true
		kind := grant.Kind
		purchased := grant.PurchasedAt
		r.cached.Kind = &kind
		r.cached.GrantedAt = &purchased
		r.cached.ExpiresAt = grant.ExpiresAt
	} else {
		r.premium = false
		r.cached.Premium = false
		r.cached.Kind = nil
		r.cached.GrantedAt = nil
		r.cached.ExpiresAt = nil
	}
	r.cached.UpdatedAt = now

	if err := r.repo.Save(ctx, r.cached); err != nil {
		r.log.ErrorContext(ctx, "persist entitlement state",
			slog.String("error", err.Error()),
		)
	}
	return r.premium
}

// loadCacheLocked refreshes r.cached from storage, keeping the last known
// in-memory copy when the read fails. Callers hold r.mu.
func (r *Resolver) loadCacheLocked(ctx context.Context) {
	state, err := r.repo.Get(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "load entitlement state",
			slog.String("error", err.Error()),
		)
		if r.cached == nil {
			r.cached = &domain.EntitlementState{}
		}
		return
	}
	r.cached = state
}

// pickGrant selects the strongest currently-valid grant: a perpetual one
// wins over any time-limited one, otherwise the latest expiry wins.
func pickGrant(ents []domain.Entitlement, now time.Time) *domain.Entitlement {
	var best *domain.Entitlement
	for i := range ents {
		e := &ents[i]
		if !e.Valid(now) {
			continue
		}
		switch {
		case best == nil:
			best = e
		case e.ExpiresAt == nil:
			best = e
		case best.ExpiresAt != nil && e.ExpiresAt.After(*best.ExpiresAt):
			best = e
		}
	}
	return best
}
