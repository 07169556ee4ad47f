// Package app provides the main application structure and lifecycle management.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/devices"
	"github.com/halwen/patchbay/internal/engine"
	"github.com/halwen/patchbay/internal/settings"
)

// lastSessionPreset names the preset that carries engine state across runs.
const lastSessionPreset = "last-session"

// Application represents the main application with its lifecycle.
type Application struct {
	app *fx.App
}

// New creates a new Application with the provided modules and options.
func New(modules ...fx.Option) *Application {
	// Combine all provided modules with lifecycle management
	options := append(modules,
		fx.Invoke(registerChangeObserver),
		fx.Invoke(registerLifecycleHooks),
	)

	app := fx.New(options...)

	return &Application{
		app: app,
	}
}

// Run starts the application and blocks until it's stopped.
func (a *Application) Run() {
	a.app.Run()
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// registerLifecycleHooks sets up the application lifecycle hooks.
func registerLifecycleHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	e *engine.Engine,
	catalog *devices.Catalog,
	watcher *devices.Watcher,
	store *settings.Store,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting application: scanning interfaces and bringing up the audio graph")

			if _, err := catalog.DetectInterfaces(ctx); err != nil {
				// The watcher rescans on its own; starting without a device
				// list is fine.
				logger.Warn("Initial interface scan failed", zap.Error(err))
			}

			if store.Exists(lastSessionPreset) {
				if p, err := store.Load(lastSessionPreset); err != nil {
					logger.Warn("Could not restore last session", zap.Error(err))
				} else if err := e.LoadPreset(p); err != nil {
					logger.Warn("Could not restore last session", zap.Error(err))
				}
			}

			if err := e.SetupAudioGraph(); err != nil {
				logger.Error("Failed to set up audio graph", zap.Error(err))

				return err
			}

			// A start failure leaves the engine configured but silent. The
			// control plane stays usable, so don't abort the application.
			if err := e.Start(); err != nil {
				logger.Error("Failed to start audio graph", zap.Error(err))
			}

			watcher.Start()

			logger.Info("Application started successfully")

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping application: saving session and shutting down the audio graph")

			if err := watcher.Stop(ctx); err != nil {
				logger.Warn("Interface watcher did not stop cleanly", zap.Error(err))
			}

			if err := store.Save(e.SavePreset(lastSessionPreset)); err != nil {
				logger.Warn("Could not save last session", zap.Error(err))
			}

			e.Stop()

			logger.Info("Application stopped successfully")

			return nil
		},
	})
}

// registerChangeObserver wires a logging observer into the engine so state
// changes show up in the session log.
func registerChangeObserver(logger *zap.Logger, e *engine.Engine) {
	e.Subscribe(&changeLogger{logger: logger})
}

type changeLogger struct {
	logger *zap.Logger
}

func (c *changeLogger) ChannelChanged(bank engine.Bank, id int) {
	c.logger.Debug("channel changed", zap.Stringer("bank", bank), zap.Int("channel", id))
}

func (c *changeLogger) RoutingChanged() {
	c.logger.Debug("routing changed")
}

func (c *changeLogger) PresetLoaded(name string) {
	c.logger.Debug("preset applied", zap.String("preset", name))
}
