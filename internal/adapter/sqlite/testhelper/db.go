// Package testhelper provides an isolated in-memory database per test,
// fully migrated, closed via t.Cleanup.
package testhelper

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	"github.com/jessedraper/partydeck/internal/config"
	"github.com/jessedraper/partydeck/internal/domain"
)

// SetupTestDB opens a fresh in-memory database with all migrations applied.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, config.DatabaseConfig{
		Path:        ":memory:",
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SeedCategory inserts a category row directly.
func SeedCategory(t *testing.T, db *sql.DB, name string, premium bool) domain.Category {
	t.Helper()

	cat := domain.Category{
		ID:        uuid.New(),
		Name:      name,
		Position:  1,
		IsPremium: premium,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO categories (id, name, position, is_premium, created_at) VALUES (?, ?, ?, ?, ?)`,
		cat.ID.String(), cat.Name, cat.Position, cat.IsPremium, cat.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seed category: %v", err)
	}

	return cat
}

// SeedCard inserts a card row directly.
func SeedCard(t *testing.T, db *sql.DB, categoryID uuid.UUID, position int, text string) domain.Card {
	t.Helper()

	now := time.Now().UTC()
	card := domain.Card{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Position:   position,
		Text:       text,
		Difficulty: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := db.Exec(
		`INSERT INTO cards (id, category_id, position, text, difficulty, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		card.ID.String(), card.CategoryID.String(), card.Position, card.Text, card.Difficulty,
		card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seed card: %v", err)
	}

	return card
}
