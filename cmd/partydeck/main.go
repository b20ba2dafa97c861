// Command partydeck runs the game core: it opens the local database,
// imports the bundled deck on first launch, reconciles the premium
// entitlement against the store, restores the most recent open session, and
// keeps the background transaction listener running until interrupted.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessedraper/partydeck/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	a.Start(ctx)

	<-ctx.Done()
	a.Log.Info("shutting down")
	if err := a.Close(); err != nil {
		a.Log.Error("shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
