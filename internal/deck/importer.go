package deck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jessedraper/partydeck/internal/domain"
)

// premiumCategories is the fixed display-name to premium mapping re-applied
// to stored categories on every launch. Only the flag is upserted, never the
// card content.
var premiumCategories = map[string]bool{
	"Icebreakers":    false,
	"Party Classics": false,
	"Solo":           false,
	"Couples":        false,
	"Deep Talk":      true,
	"After Dark":     true,
}

type categoryRepo interface {
	Create(ctx context.Context, cat *domain.Category) error
	SetPremiumByName(ctx context.Context, name string, premium bool) error
	DeleteAll(ctx context.Context) error
}

type cardRepo interface {
	CreateBatch(ctx context.Context, cards []*domain.Card) error
	Count(ctx context.Context) (int, error)
}

type sessionRepo interface {
	DeleteAll(ctx context.Context) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Importer populates the store from the bundled asset.
type Importer struct {
	categories categoryRepo
	cards      cardRepo
	sessions   sessionRepo
	tx         txManager
	log        *slog.Logger
	clock      func() time.Time
}

// NewImporter creates a deck importer.
func NewImporter(log *slog.Logger, categories categoryRepo, cards cardRepo, sessions sessionRepo, tx txManager) *Importer {
	return &Importer{
		categories: categories,
		cards:      cards,
		sessions:   sessions,
		tx:         tx,
		log:        log.With("service", "deck"),
		clock:      time.Now,
	}
}

// EnsureImported runs the one-time first-launch import. A non-empty card
// table means the import already happened; the asset is never re-read after
// that except through the destructive Reimport path.
func (i *Importer) EnsureImported(ctx context.Context) error {
	n, err := i.cards.Count(ctx)
	if err != nil {
		return fmt.Errorf("check existing cards: %w", err)
	}
	if n > 0 {
		return i.ApplyPremiumTable(ctx)
	}

	asset, err := Bundled()
	if err != nil {
		return fmt.Errorf("load bundled deck: %w", err)
	}

	if err := i.importAsset(ctx, asset); err != nil {
		return err
	}

	i.log.InfoContext(ctx, "deck imported",
		slog.Int("categories", len(asset.Categories)),
	)

	return i.ApplyPremiumTable(ctx)
}

// Reimport drops all categories, cards, and sessions, then imports the
// bundled asset from scratch. Destructive by contract: usage counters and
// favorites are lost.
func (i *Importer) Reimport(ctx context.Context) error {
	asset, err := Bundled()
	if err != nil {
		return fmt.Errorf("load bundled deck: %w", err)
	}

	err = i.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := i.sessions.DeleteAll(txCtx); err != nil {
			return err
		}
		if err := i.categories.DeleteAll(txCtx); err != nil {
			return err
		}
		return i.importAssetTx(txCtx, asset)
	})
	if err != nil {
		return fmt.Errorf("reimport deck: %w", err)
	}

	i.log.InfoContext(ctx, "deck reimported",
		slog.Int("categories", len(asset.Categories)),
	)

	return i.ApplyPremiumTable(ctx)
}

// ApplyPremiumTable re-applies the fixed premium membership mapping.
// Idempotent; called on every launch.
func (i *Importer) ApplyPremiumTable(ctx context.Context) error {
	for name, premium := range premiumCategories {
		if err := i.categories.SetPremiumByName(ctx, name, premium); err != nil {
			return fmt.Errorf("apply premium table: %w", err)
		}
	}
	return nil
}

func (i *Importer) importAsset(ctx context.Context, asset *Asset) error {
	if err := i.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return i.importAssetTx(txCtx, asset)
	}); err != nil {
		return fmt.Errorf("import deck: %w", err)
	}
	return nil
}

func (i *Importer) importAssetTx(ctx context.Context, asset *Asset) error {
	now := i.clock().UTC()

	for pos, assetCat := range asset.Categories {
		cat := &domain.Category{
			ID:        uuid.New(),
			Name:      assetCat.Name,
			Position:  pos + 1,
			IsPremium: premiumCategories[assetCat.Name],
			CreatedAt: now,
		}
		if err := i.categories.Create(ctx, cat); err != nil {
			return fmt.Errorf("create category %q: %w", cat.Name, err)
		}

		cards := make([]*domain.Card, 0, len(assetCat.Prompts))
		for _, prompt := range assetCat.Prompts {
			cards = append(cards, &domain.Card{
				ID:         uuid.New(),
				CategoryID: cat.ID,
				Position:   prompt.Position,
				Text:       prompt.Text,
				Difficulty: prompt.Difficulty,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		if err := i.cards.CreateBatch(ctx, cards); err != nil {
			return fmt.Errorf("create cards for %q: %w", cat.Name, err)
		}
	}

	return nil
}
