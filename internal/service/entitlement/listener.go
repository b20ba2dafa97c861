package entitlement

import (
	"context"
	"log/slog"
	"time"
)

// RunListener consumes the store's transaction-update stream for the
// lifetime of ctx, re-running reconciliation on every event so renewals,
// cross-device purchases, and revocations land without a relaunch.
//
// The loop never stops on an individual event: reconciliation swallows its
// own failures, and a dropped or failed stream is re-subscribed after the
// retry interval. Intended to run on its own goroutine.
func (r *Resolver) RunListener(ctx context.Context) {
	for {
		updates, err := r.store.TransactionUpdates(ctx)
		if err != nil {
			r.log.WarnContext(ctx, "transaction stream subscribe failed",
				slog.String("error", err.Error()),
			)
			if !r.sleep(ctx) {
				return
			}
			continue
		}

		for ent := range updates {
			r.log.InfoContext(ctx, "transaction update",
				slog.String("product_id", ent.ProductID),
				slog.String("kind", ent.Kind.String()),
			)
			r.Reconcile(ctx)
		}

		if ctx.Err() != nil {
			return
		}
		r.log.WarnContext(ctx, "transaction stream closed, resubscribing")
		if !r.sleep(ctx) {
			return
		}
	}
}

func (r *Resolver) sleep(ctx context.Context) bool {
	timer := time.NewTimer(r.retryInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
