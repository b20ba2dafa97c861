// Package entitlement implements the premium-entitlement resolver: one
// authoritative answer to "is this installation entitled to premium
// content", reconciled between the remote store and the locally cached
// EntitlementState row.
package entitlement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jessedraper/partydeck/internal/domain"
)

// storeClient is the remote purchase source. Transactions arriving through
// any of these calls are already signature-verified by the adapter.
// TransactionUpdates returns a channel the adapter closes when ctx ends (or
// the underlying stream drops); the resolver resubscribes on closure.
type storeClient interface {
	Products(ctx context.Context, ids []string) ([]domain.Product, error)
	Entitlements(ctx context.Context) ([]domain.Entitlement, error)
	Purchase(ctx context.Context, productID string) (*domain.Entitlement, error)
	Restore(ctx context.Context) ([]domain.Entitlement, error)
	TransactionUpdates(ctx context.Context) (<-chan domain.Entitlement, error)
}

type entitlementRepo interface {
	Get(ctx context.Context) (*domain.EntitlementState, error)
	Save(ctx context.Context, state *domain.EntitlementState) error
}

// State is the resolver's remote-fetch state. It decides which branch of
// the reconciliation precedence applies: only Ready lets an empty remote
// answer overwrite the cache.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateLoading:
		return "LOADING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Resolver reconciles remote entitlement truth against the cached
// EntitlementState and keeps the cache in sync.
//
// Unlike the session tracker, the resolver is touched from two goroutines
// (callers plus the background transaction listener), so its state is
// mutex-guarded. Last write wins on the cache when a listener-triggered
// reconciliation races a manual one.
type Resolver struct {
	store         storeClient
	repo          entitlementRepo
	log           *slog.Logger
	clock         func() time.Time
	productIDs    []string
	retryInterval time.Duration

	mu           sync.Mutex
	state        State
	catalogEmpty bool
	premium      bool
	cached       *domain.EntitlementState
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) { r.clock = clock }
}

// WithRetryInterval sets the delay before the background listener
// re-subscribes after a dropped stream.
func WithRetryInterval(d time.Duration) Option {
	return func(r *Resolver) { r.retryInterval = d }
}

// NewResolver creates a resolver for the given product identifiers. It
// starts Uninitialized: no remote fetch happens until Reconcile.
func NewResolver(log *slog.Logger, store storeClient, repo entitlementRepo, productIDs []string, opts ...Option) *Resolver {
	r := &Resolver{
		store:         store,
		repo:          repo,
		log:           log.With("service", "entitlement"),
		clock:         time.Now,
		productIDs:    productIDs,
		retryInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current remote-fetch state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CatalogEmpty reports whether the last successful remote answer contained
// zero entitlements. Meaningful only in the Ready state.
func (r *Resolver) CatalogEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalogEmpty
}

// Effective returns the current authoritative premium answer as computed by
// the last reconciliation. False before the first Reconcile.
func (r *Resolver) Effective() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.premium
}

// Cached returns a copy of the last known cache row, nil before the cache
// was first read.
func (r *Resolver) Cached() *domain.EntitlementState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil {
		return nil
	}
	c := *r.cached
	if r.cached.Kind != nil {
		k := *r.cached.Kind
		c.Kind = &k
	}
	if r.cached.GrantedAt != nil {
		g := *r.cached.GrantedAt
		c.GrantedAt = &g
	}
	if r.cached.ExpiresAt != nil {
		e := *r.cached.ExpiresAt
		c.ExpiresAt = &e
	}
	return &c
}

// Products fetches metadata for the configured product identifiers,
// surfaced to the paywall as-is.
func (r *Resolver) Products(ctx context.Context) ([]domain.Product, error) {
	return r.store.Products(ctx, r.productIDs)
}
