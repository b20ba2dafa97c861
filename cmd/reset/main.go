// Command reset wipes all play state: sessions are deleted and the deck is
// destructively re-imported from the bundled asset. The entitlement row is
// left alone; purchases are not play state.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	cardrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/card"
	categoryrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/category"
	sessionrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/session"
	"github.com/jessedraper/partydeck/internal/app"
	"github.com/jessedraper/partydeck/internal/config"
	"github.com/jessedraper/partydeck/internal/deck"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	importer := deck.NewImporter(logger,
		categoryrepo.New(db),
		cardrepo.New(db),
		sessionrepo.New(db),
		sqlite.NewTxManager(db),
	)

	if err := importer.Reimport(ctx); err != nil {
		logger.Error("reset failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("reset completed")
}
