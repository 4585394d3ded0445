package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/kopio/internal/config"
	"github.com/phrazzld/kopio/internal/events"
	"github.com/phrazzld/kopio/internal/service"
	"github.com/phrazzld/kopio/internal/store"
)

// application holds the shared dependencies of the server and releases
// them on shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	location *time.Location

	kv      store.KeyValueStore
	adapter *store.Adapter

	eventEmitter *events.InMemoryEventEmitter
	planner      service.PlannerService
}

// newApplication opens the configured backend, loads the persisted planner
// state and wires the persistence adapter behind the planner service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.kv, err = openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Planner.Location()
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load planner time zone: %w", err)
	}
	app.location = loc

	app.adapter = store.NewAdapter(app.kv, logger, store.WithLocation(loc))
	initial, err := app.adapter.Load(ctx)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load planner state: %w", err)
	}
	logger.Info("Planner state loaded",
		"subjects", len(initial.Subjects),
		"revision_slots", len(initial.Slots))

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(app.adapter)

	app.planner, err = service.NewPlannerService(initial, app.eventEmitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create planner service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes the storage backend.
func (app *application) cleanup() {
	if app.kv != nil {
		if err := app.kv.Close(); err != nil {
			app.logger.Error("Error closing storage backend", "error", err)
		}
		app.kv = nil
	}
	app.logger.Info("Application shutdown completed")
}
