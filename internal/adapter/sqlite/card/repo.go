// Package card implements the Card repository on the embedded store.
// Listing uses squirrel: the favorite/difficulty/category filters produce
// dynamic WHERE clauses that raw SQL constants handle poorly.
package card

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	"github.com/jessedraper/partydeck/internal/domain"
)

// Repo provides card persistence.
type Repo struct {
	db *sql.DB
}

// New creates a new card repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const cardColumns = `id, category_id, position, text, completed, usage_count, favorite, difficulty, created_at, updated_at`

const getByIDSQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE id = ?`

const listByCategorySQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE category_id = ?
ORDER BY position`

const createSQL = `
INSERT INTO cards (id, category_id, position, text, difficulty, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const resetCompletionSQL = `
UPDATE cards SET completed = 0, updated_at = ? WHERE category_id = ?`

const markCompletedSQL = `
UPDATE cards SET completed = 1, usage_count = usage_count + 1, updated_at = ? WHERE id = ?`

const setFavoriteSQL = `
UPDATE cards SET favorite = ?, updated_at = ? WHERE id = ?`

const countByCategorySQL = `SELECT count(*) FROM cards WHERE category_id = ?`

const countSQL = `SELECT count(*) FROM cards`

// GetByID returns a card by primary key.
// Returns domain.ErrNotFound if the card does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	card, err := scanCard(q.QueryRowContext(ctx, getByIDSQL, id.String()))
	if err != nil {
		return nil, sqlite.MapError(err, "card", id)
	}

	return card, nil
}

// ListByCategory returns a category's cards in canonical order.
func (r *Repo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Card, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	rows, err := q.QueryContext(ctx, listByCategorySQL, categoryID.String())
	if err != nil {
		return nil, fmt.Errorf("list cards by category: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// List returns cards matching the filter, ordered by category then position.
func (r *Repo) List(ctx context.Context, filter domain.CardFilter) ([]*domain.Card, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	builder := sq.Select(cardColumns).
		From("cards").
		OrderBy("category_id", "position")

	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"category_id": filter.CategoryID.String()})
	}
	if filter.Favorite != nil {
		builder = builder.Where(sq.Eq{"favorite": *filter.Favorite})
	}
	if filter.Difficulty != nil {
		builder = builder.Where(sq.Eq{"difficulty": *filter.Difficulty})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build card filter query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	return collectCards(rows)
}

// CreateBatch inserts cards in a single transaction-friendly loop.
// Used only by the deck importer.
func (r *Repo) CreateBatch(ctx context.Context, cards []*domain.Card) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	for _, c := range cards {
		_, err := q.ExecContext(ctx, createSQL,
			c.ID.String(), c.CategoryID.String(), c.Position, c.Text, c.Difficulty,
			c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
		)
		if err != nil {
			return sqlite.MapError(err, "card", c.ID)
		}
	}

	return nil
}

// ResetCompletion clears the per-session completion flag for a whole category.
func (r *Repo) ResetCompletion(ctx context.Context, categoryID uuid.UUID) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx, resetCompletionSQL, time.Now().UTC(), categoryID.String()); err != nil {
		return fmt.Errorf("reset completion: %w", err)
	}

	return nil
}

// MarkCompleted sets the per-session flag and bumps the usage counter in one
// statement, so a crash between the two cannot split them.
func (r *Repo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	res, err := q.ExecContext(ctx, markCompletedSQL, time.Now().UTC(), id.String())
	if err != nil {
		return sqlite.MapError(err, "card", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetFavorite updates the persistent favorite flag.
func (r *Repo) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	res, err := q.ExecContext(ctx, setFavoriteSQL, favorite, time.Now().UTC(), id.String())
	if err != nil {
		return sqlite.MapError(err, "card", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountByCategory returns the number of cards in a category.
func (r *Repo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	var n int
	if err := q.QueryRowContext(ctx, countByCategorySQL, categoryID.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards by category: %w", err)
	}

	return n, nil
}

// Count returns the total number of cards. Zero means the one-time deck
// import has not run yet.
func (r *Repo) Count(ctx context.Context) (int, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	var n int
	if err := q.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}

	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card           domain.Card
		id, categoryID string
	)

	err := row.Scan(
		&id, &categoryID, &card.Position, &card.Text, &card.Completed,
		&card.UsageCount, &card.Favorite, &card.Difficulty,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if card.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse card id: %w", err)
	}
	if card.CategoryID, err = uuid.Parse(categoryID); err != nil {
		return nil, fmt.Errorf("parse card category id: %w", err)
	}

	return &card, nil
}

func collectCards(rows *sql.Rows) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}
