// Command seeder imports the bundled deck asset into the local database.
// The normal app does this on first launch; the seeder exists for
// provisioning a database ahead of time and for forcing a re-import after
// an asset change.
//
// Flags:
//
//	--reimport  destructively replace all categories, cards, and sessions
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
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
	reimportFlag := flag.Bool("reimport", false, "destructively replace all deck data")
	flag.Parse()

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

	if *reimportFlag {
		err = importer.Reimport(ctx)
	} else {
		err = importer.EnsureImported(ctx)
	}
	if err != nil {
		logger.Error("deck import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("deck import completed", slog.Bool("reimport", *reimportFlag))
}
