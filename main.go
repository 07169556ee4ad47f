// Package main provides the entry point for the patchbay audio engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/halwen/patchbay/internal/app"
	"github.com/halwen/patchbay/internal/config"
	"github.com/halwen/patchbay/internal/devices"
	"github.com/halwen/patchbay/internal/engine"
	"github.com/halwen/patchbay/internal/infrastructure"
	"github.com/halwen/patchbay/internal/portaudio"
	"github.com/halwen/patchbay/internal/settings"
	pkginfra "github.com/halwen/patchbay/pkg/infrastructure"
)

func main() {
	// A .env file is optional; it only matters for local development.
	_ = godotenv.Load()

	// Set a default config path. The environment variable wins so deployments
	// can relocate the file.
	configPath := "config.yaml"
	if path := os.Getenv("PATCHBAY_CONFIG"); path != "" {
		configPath = path
	}

	// Create the application with all modules
	application := app.New(
		// Core modules
		config.Module,
		infrastructure.LoggerModule,

		// Platform modules
		portaudio.Module,
		devices.Module,

		// Application modules
		engine.Module,
		settings.Module,

		// Supply the config path
		fx.Supply(configPath),

		// Configure Fx to use our Zap logger for its own internal logging
		fx.WithLogger(pkginfra.NewFxLoggerAdapter),
	)

	// Set up a channel to listen for OS signals (like Ctrl+C)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start the application in a goroutine
	go application.Run()

	// Block until a signal is received
	sig := <-sigCh
	fmt.Printf("Received signal: %s, initiating shutdown.\n", sig)

	// Create a context with timeout for graceful shutdown
	// Give the application 30 seconds to shut down gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	// Gracefully stop the application
	err := application.Stop(shutdownCtx)
	cancel() // Always cancel the context after Stop returns

	if err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Application has shut down gracefully.")
}
