// Package devices enumerates physical audio interfaces, tracks the active
// interface and global sample-rate/buffer-size/bit-depth settings, and
// watches for device churn.
package devices

import (
	"go.uber.org/fx"
)

// Module provides the interface catalog and its background watcher.
var Module = fx.Module("devices",
	fx.Provide(
		NewCatalog,
		NewWatcher,
	),
)
