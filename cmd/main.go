package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/fx"

	"github.com/halwen/patchbay/internal/config"
	"github.com/halwen/patchbay/internal/devices"
	"github.com/halwen/patchbay/internal/infrastructure"
	"github.com/halwen/patchbay/internal/portaudio"
)

// InspectionParameters holds dependencies for the interface dump.
type InspectionParameters struct {
	fx.In
	LC      fx.Lifecycle
	Catalog *devices.Catalog
}

// registerInterfaceDump hooks a one-shot interface scan into the Fx
// application lifecycle. The scan has to run as an OnStart hook so the
// PortAudio runtime is initialized first.
func registerInterfaceDump(params InspectionParameters) {
	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			infos, err := params.Catalog.DetectInterfaces(ctx)
			if err != nil {
				return fmt.Errorf("failed to scan interfaces: %w", err)
			}

			log.Printf("Found %d usable audio interfaces:", len(infos))
			for _, info := range infos {
				marker := " "
				if info.IsDefault {
					marker = "*"
				}
				fmt.Printf("%s [%3d] %-40s %-16s in:%-3d out:%-3d rates:%v depths:%v\n",
					marker, info.ID, info.Name, info.Manufacturer,
					info.InputChannels, info.OutputChannels,
					info.SampleRates, info.BitDepths)
			}

			return nil
		},
	})
}

func main() {
	configPath := "config.yaml"
	if path := os.Getenv("PATCHBAY_CONFIG"); path != "" {
		configPath = path
	}

	log.Println("Initializing Fx application...")
	app := fx.New(
		fx.Supply(configPath),
		fx.Provide(
			config.LoadConfig,
			infrastructure.NewZapLogger,
			portaudio.NewBackend,
			portaudio.NewDeviceAPI,
			devices.NewCatalog,
		),
		fx.Invoke(registerInterfaceDump),
		// Keep Fx's own logging out of the listing.
		fx.NopLogger,
	)

	// Start executes the OnStart hooks, which initializes PortAudio and runs
	// the scan above.
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Fx application failed to start: %v", err)
	}

	if err := app.Stop(context.Background()); err != nil {
		log.Fatalf("Fx application failed to stop gracefully: %v", err)
	}
}
