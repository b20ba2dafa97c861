package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jessedraper/partydeck/internal/adapter/sqlite"
	cardrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/card"
	categoryrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/category"
	entitlementrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/entitlement"
	sessionrepo "github.com/jessedraper/partydeck/internal/adapter/sqlite/session"
	"github.com/jessedraper/partydeck/internal/adapter/storekit"
	"github.com/jessedraper/partydeck/internal/config"
	"github.com/jessedraper/partydeck/internal/deck"
	entitlementsvc "github.com/jessedraper/partydeck/internal/service/entitlement"
	"github.com/jessedraper/partydeck/internal/service/gate"
	sessionsvc "github.com/jessedraper/partydeck/internal/service/session"
)

// App wires the full object graph: storage, the deck importer, the store
// client, and the three services the UI layer talks to.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	DB     *sql.DB

	Categories *categoryrepo.Repo
	Cards      *cardrepo.Repo
	Sessions   *sessionrepo.Repo

	Importer *deck.Importer
	Tracker  *sessionsvc.Tracker
	Resolver *entitlementsvc.Resolver
	Gates    *gate.Service

	stopListener context.CancelFunc
	listenerDone chan struct{}
}

// New loads configuration, opens and migrates the database, runs the
// one-time deck import plus the idempotent premium-table pass, and builds
// the services. Nothing remote is contacted yet; that happens in Start.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("database", cfg.Database.Path),
	)

	db, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	categories := categoryrepo.New(db)
	cards := cardrepo.New(db)
	sessions := sessionrepo.New(db)
	state := entitlementrepo.New(db)

	importer := deck.NewImporter(logger, categories, cards, sessions, sqlite.NewTxManager(db))
	if err := importer.EnsureImported(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("import deck: %w", err)
	}

	store, err := storekit.NewClient(cfg.Store, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	resolver := entitlementsvc.NewResolver(logger, store, state, cfg.Store.ProductIDs(),
		entitlementsvc.WithRetryInterval(cfg.Store.RetryInterval),
	)

	tracker := sessionsvc.NewTracker(logger, cards, sessions, categories, cfg.Game.LookaheadSize,
		sessionsvc.WithMaxPlayers(cfg.Game.MaxPlayerCount),
	)

	return &App{
		Config:     cfg,
		Log:        logger,
		DB:         db,
		Categories: categories,
		Cards:      cards,
		Sessions:   sessions,
		Importer:   importer,
		Tracker:    tracker,
		Resolver:   resolver,
		Gates:      gate.New(logger, resolver, state, cfg.Game.RatingUnlockCategory),
	}, nil
}

// Start performs launch-time work: the background transaction listener,
// the first entitlement reconciliation, and session restoration. Reconcile
// and restore are both non-throwing, so a dead network or a torn session
// never blocks launch.
func (a *App) Start(ctx context.Context) {
	listenerCtx, cancel := context.WithCancel(context.Background())
	a.stopListener = cancel
	a.listenerDone = make(chan struct{})
	go func() {
		defer close(a.listenerDone)
		a.Resolver.RunListener(listenerCtx)
	}()

	premium := a.Resolver.Reconcile(ctx)
	a.Log.Info("entitlement reconciled",
		slog.Bool("premium", premium),
		slog.String("state", a.Resolver.State().String()),
	)

	if s := a.Tracker.RestoreMostRecentActive(ctx); s != nil {
		a.Log.Info("session restored",
			slog.String("session_id", s.ID.String()),
		)
	}
}

// Close stops the listener and closes the database.
func (a *App) Close() error {
	if a.stopListener != nil {
		a.stopListener()
		select {
		case <-a.listenerDone:
		case <-time.After(5 * time.Second):
			a.Log.Warn("transaction listener did not stop in time")
		}
	}
	return a.DB.Close()
}
