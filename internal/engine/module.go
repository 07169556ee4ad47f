package engine

import "go.uber.org/fx"

// Module provides the audio engine.
var Module = fx.Module("engine",
	fx.Provide(NewEngine),
)
