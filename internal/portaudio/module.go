package portaudio

import "go.uber.org/fx"

// Module provides the PortAudio runtime, device API, and realtime graph.
var Module = fx.Module("portaudio",
	fx.Provide(
		NewBackend,
		NewDeviceAPI,
		NewGraph,
	),
)
