// Package portaudio implements the platform device API and the realtime
// audio graph on PortAudio.
package portaudio

import (
	"context"
	"fmt"

	pa "github.com/gordonklaus/portaudio"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Backend owns the PortAudio runtime lifecycle. Every other component in
// this package depends on it, which orders initialization ahead of first
// use.
type Backend struct {
	logger *zap.Logger
}

// NewBackend ties PortAudio initialization and termination to the
// application lifecycle.
func NewBackend(lc fx.Lifecycle, logger *zap.Logger) *Backend {
	b := &Backend{logger: logger}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := pa.Initialize(); err != nil {
				return fmt.Errorf("initialize portaudio: %w", err)
			}
			logger.Info("portaudio initialized", zap.String("version", pa.VersionText()))

			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := pa.Terminate(); err != nil {
				return fmt.Errorf("terminate portaudio: %w", err)
			}

			return nil
		},
	})

	return b
}
