package app

import (
	"context"
	"net/http"

	"github.com/Food-Locker/consumer/internal/config"
)

type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	return &App{
		httpServer: server,
		cleanup:    cleanup,
	}, nil
}

func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

// Shutdown drains the HTTP server and then releases the kiosk's
// resources. Cleanup runs even when the drain times out, so the workflow
// and manager are always disposed and the DB handle closed.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)
	if a.cleanup != nil {
		if cerr := a.cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
