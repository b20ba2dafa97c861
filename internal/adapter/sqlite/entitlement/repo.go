// Package entitlement implements the EntitlementState repository.
// The table holds exactly one row (id = 1); Get creates it on first access.
package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	"github.com/jessedraper/partydeck/internal/domain"
)

// Repo provides entitlement-state persistence.
type Repo struct {
	db *sql.DB
}

// New creates a new entitlement repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const getSQL = `
SELECT premium, kind, granted_at, expires_at, has_rated, updated_at
FROM entitlement_state
WHERE id = 1`

const initSQL = `
INSERT INTO entitlement_state (id, premium, has_rated, updated_at)
VALUES (1, 0, 0, ?)`

const saveSQL = `
UPDATE entitlement_state
SET premium = ?, kind = ?, granted_at = ?, expires_at = ?, updated_at = ?
WHERE id = 1`

const setRatedSQL = `
UPDATE entitlement_state SET has_rated = ?, updated_at = ? WHERE id = 1`

// Get returns the singleton entitlement state, creating the default row on
// first access.
func (r *Repo) Get(ctx context.Context) (*domain.EntitlementState, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	state, err := scanState(q.QueryRowContext(ctx, getSQL))
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entitlement state: %w", err)
	}

	now := time.Now().UTC()
	if _, err := q.ExecContext(ctx, initSQL, now); err != nil {
		return nil, fmt.Errorf("init entitlement state: %w", err)
	}

	return &domain.EntitlementState{UpdatedAt: now}, nil
}

// Save persists the reconciled entitlement fields. The has_rated flag is
// owned by SetRated and deliberately not written here.
func (r *Repo) Save(ctx context.Context, state *domain.EntitlementState) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	var kind any
	if state.Kind != nil {
		kind = string(*state.Kind)
	}

	state.UpdatedAt = time.Now().UTC()

	res, err := q.ExecContext(ctx, saveSQL,
		state.Premium, kind, nullableTime(state.GrantedAt), nullableTime(state.ExpiresAt),
		state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save entitlement state: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row not created yet: Get was never called. Create then retry once.
		if _, err := q.ExecContext(ctx, initSQL, state.UpdatedAt); err != nil {
			return fmt.Errorf("init entitlement state: %w", err)
		}
		if _, err := q.ExecContext(ctx, saveSQL,
			state.Premium, kind, nullableTime(state.GrantedAt), nullableTime(state.ExpiresAt),
			state.UpdatedAt,
		); err != nil {
			return fmt.Errorf("save entitlement state: %w", err)
		}
	}

	return nil
}

// SetRated records that the user performed the rating action.
func (r *Repo) SetRated(ctx context.Context, rated bool) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx, setRatedSQL, rated, time.Now().UTC()); err != nil {
		return fmt.Errorf("set rated: %w", err)
	}

	return nil
}

func scanState(row *sql.Row) (*domain.EntitlementState, error) {
	var (
		state     domain.EntitlementState
		kind      sql.NullString
		grantedAt sql.NullTime
		expiresAt sql.NullTime
	)

	err := row.Scan(&state.Premium, &kind, &grantedAt, &expiresAt, &state.HasRated, &state.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if kind.Valid {
		k := domain.SubscriptionKind(kind.String)
		if !k.IsValid() {
			return nil, fmt.Errorf("unknown subscription kind %q", kind.String)
		}
		state.Kind = &k
	}
	if grantedAt.Valid {
		t := grantedAt.Time
		state.GrantedAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		state.ExpiresAt = &t
	}

	return &state, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
