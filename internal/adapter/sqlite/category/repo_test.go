package category_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite/category"
	"github.com/jessedraper/partydeck/internal/adapter/sqlite/testhelper"
	"github.com/jessedraper/partydeck/internal/domain"
)

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	db := testhelper.SetupTestDB(t)
	repo := category.New(db)
	ctx := context.Background()

	cat := &domain.Category{
		ID:        uuid.New(),
		Name:      "Icebreakers",
		Position:  1,
		IsPremium: false,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, cat); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, cat.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Name != "Icebreakers" {
		t.Errorf("Name mismatch: got %s, want Icebreakers", got.Name)
	}
	if got.CardCount != 0 {
		t.Errorf("CardCount: got %d, want 0", got.CardCount)
	}
}

func TestRepo_Create_DuplicateName(t *testing.T) {
	t.Parallel()
	db := testhelper.SetupTestDB(t)
	repo := category.New(db)
	ctx := context.Background()

	testhelper.SeedCategory(t, db, "Party", false)

	err := repo.Create(ctx, &domain.Category{
		ID:        uuid.New(),
		Name:      "Party",
		Position:  2,
		CreatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	db := testhelper.SetupTestDB(t)
	repo := category.New(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_List_OrderAndCardCount(t *testing.T) {
	t.Parallel()
	db := testhelper.SetupTestDB(t)
	repo := category.New(db)
	ctx := context.Background()

	solo := testhelper.SeedCategory(t, db, "Solo", false)
	testhelper.SeedCard(t, db, solo.ID, 1, "one")
	testhelper.SeedCard(t, db, solo.ID, 2, "two")
	testhelper.SeedCategory(t, db, "After Dark", true)

	cats, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("List length: got %d, want 2", len(cats))
	}

	// Same position, so name breaks the tie.
	if cats[0].Name != "After Dark" || cats[1].Name != "Solo" {
		t.Errorf("order: got [%s, %s]", cats[0].Name, cats[1].Name)
	}
	if cats[1].CardCount != 2 {
		t.Errorf("Solo CardCount: got %d, want 2", cats[1].CardCount)
	}
}

func TestRepo_SetPremiumByName(t *testing.T) {
	t.Parallel()
	db := testhelper.SetupTestDB(t)
	repo := category.New(db)
	ctx := context.Background()

	cat := testhelper.SeedCategory(t, db, "Deep Talk", false)

	if err := repo.SetPremiumByName(ctx, "Deep Talk", true); err != nil {
		t.Fatalf("SetPremiumByName: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, cat.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if !got.IsPremium {
		t.Error("IsPremium should be true after upsert")
	}

	// Unknown names are ignored, not an error.
	if err := repo.SetPremiumByName(ctx, "No Such Category", true); err != nil {
		t.Errorf("SetPremiumByName for unknown name: unexpected error: %v", err)
	}
}

func TestRepo_DeleteAll_CascadesToCards(t *testing.T) {
	t.Parallel()
	db := testhelper.SetupTestDB(t)
	repo := category.New(db)
	ctx := context.Background()

	cat := testhelper.SeedCategory(t, db, "Party", false)
	testhelper.SeedCard(t, db, cat.ID, 1, "prompt")

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: unexpected error: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("Count after DeleteAll: got %d, want 0", n)
	}

	var cards int
	if err := db.QueryRow(`SELECT count(*) FROM cards`).Scan(&cards); err != nil {
		t.Fatalf("count cards: %v", err)
	}
	if cards != 0 {
		t.Errorf("cards after cascade: got %d, want 0", cards)
	}
}
