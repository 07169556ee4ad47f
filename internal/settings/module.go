package settings

import "go.uber.org/fx"

// Module provides the preset store.
var Module = fx.Module("settings",
	fx.Provide(NewStore),
)
