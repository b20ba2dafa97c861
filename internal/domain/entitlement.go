package domain

import (
	"time"
)

// EntitlementState is the locally cached premium entitlement record.
// Exactly one row exists per installation (fetched-or-created).
//
// Premium is the raw stored flag; the authoritative answer is Effective,
// which also accounts for expiry. The two are deliberately distinct: an
// expired time-limited grant keeps Premium=true in storage until the next
// successful reconciliation rewrites it.
type EntitlementState struct {
	Premium   bool
	Kind      *SubscriptionKind
	GrantedAt *time.Time
	ExpiresAt *time.Time // present only for time-limited grants
	HasRated  bool
	UpdatedAt time.Time
}

// Effective derives the entitlement truth at the given time.
func (e *EntitlementState) Effective(now time.Time) bool {
	if !e.Premium {
		return false
	}
	if e.ExpiresAt != nil && !now.Before(*e.ExpiresAt) {
		return false
	}
	return true
}

// Entitlement is a single currently-valid grant reported by the remote
// store, already signature-verified by the adapter that produced it.
type Entitlement struct {
	ProductID   string
	Kind        SubscriptionKind
	PurchasedAt time.Time
	ExpiresAt   *time.Time // nil for perpetual grants
}

// Valid reports whether the grant is currently in force.
func (e Entitlement) Valid(now time.Time) bool {
	return e.ExpiresAt == nil || now.Before(*e.ExpiresAt)
}

// Product is opaque product metadata from the remote store, surfaced to the
// paywall layer as-is.
type Product struct {
	ID           string
	DisplayName  string
	Description  string
	DisplayPrice string
	Kind         SubscriptionKind
}
