// Package category implements the Category repository on the embedded store.
package category

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	"github.com/jessedraper/partydeck/internal/domain"
)

// Repo provides category persistence.
type Repo struct {
	db *sql.DB
}

// New creates a new category repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const categoryColumns = `c.id, c.name, c.position, c.is_premium, c.created_at,
	(SELECT count(*) FROM cards WHERE cards.category_id = c.id)`

const getByIDSQL = `
SELECT ` + categoryColumns + `
FROM categories c
WHERE c.id = ?`

const getByNameSQL = `
SELECT ` + categoryColumns + `
FROM categories c
WHERE c.name = ?`

const listSQL = `
SELECT ` + categoryColumns + `
FROM categories c
ORDER BY c.position, c.name`

const createSQL = `
INSERT INTO categories (id, name, position, is_premium, created_at)
VALUES (?, ?, ?, ?, ?)`

const setPremiumSQL = `
UPDATE categories SET is_premium = ? WHERE name = ?`

const countSQL = `SELECT count(*) FROM categories`

const deleteAllSQL = `DELETE FROM categories`

// GetByID returns a category by primary key.
// Returns domain.ErrNotFound if the category does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	cat, err := scanCategory(q.QueryRowContext(ctx, getByIDSQL, id.String()))
	if err != nil {
		return nil, sqlite.MapError(err, "category", id)
	}

	return cat, nil
}

// GetByName returns a category by its unique display name.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	cat, err := scanCategory(q.QueryRowContext(ctx, getByNameSQL, name))
	if err != nil {
		return nil, sqlite.MapError(err, "category", uuid.Nil)
	}

	return cat, nil
}

// List returns all categories in display order with card counts.
func (r *Repo) List(ctx context.Context) ([]*domain.Category, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	rows, err := q.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []*domain.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return cats, nil
}

// Create inserts a new category.
// Returns domain.ErrAlreadyExists on a duplicate name.
func (r *Repo) Create(ctx context.Context, cat *domain.Category) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	_, err := q.ExecContext(ctx, createSQL,
		cat.ID.String(), cat.Name, cat.Position, cat.IsPremium, cat.CreatedAt.UTC(),
	)
	if err != nil {
		return sqlite.MapError(err, "category", cat.ID)
	}

	return nil
}

// SetPremiumByName upserts the is_premium flag for a named category.
// Missing categories are ignored (the membership table may name categories
// that were dropped from the deck asset).
func (r *Repo) SetPremiumByName(ctx context.Context, name string, premium bool) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx, setPremiumSQL, premium, name); err != nil {
		return fmt.Errorf("set premium for %q: %w", name, err)
	}

	return nil
}

// Count returns the number of categories.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	var n int
	if err := q.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}

	return n, nil
}

// DeleteAll removes every category (cards cascade). Used only by the
// destructive re-import path.
func (r *Repo) DeleteAll(ctx context.Context) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx, deleteAllSQL); err != nil {
		return fmt.Errorf("delete all categories: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		cat domain.Category
		id  string
	)

	err := row.Scan(&id, &cat.Name, &cat.Position, &cat.IsPremium, &cat.CreatedAt, &cat.CardCount)
	if err != nil {
		return nil, err
	}

	cat.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse category id: %w", err)
	}

	return &cat, nil
}
