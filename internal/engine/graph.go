package engine

// NodeID identifies a node inside the realtime audio graph. Ids are opaque
// to the engine; the graph backend assigns them.
type NodeID int

// StreamFormat describes the connection format between two graph nodes.
type StreamFormat struct {
	SampleRate float64
	Channels   int
}

// TapFunc receives input buffers from the graph, one slice per hardware
// channel. It runs on the realtime callback and must not block or allocate.
type TapFunc func(buffers [][]float32)

// Graph is the realtime mixing backend the engine drives. The engine owns
// node lifecycle and per-node volumes; the backend owns sample processing.
// Implementations must make SetVolume and ApplyRouting safe to call from the
// control plane while the callback is running.
type Graph interface {
	// AttachMixerNode allocates a mixer node and returns its id.
	AttachMixerNode() NodeID

	// MainMixerNode and OutputNode identify the backend's built-in nodes.
	MainMixerNode() NodeID
	OutputNode() NodeID

	// Connect wires the output of one node into another.
	Connect(from, to NodeID, format StreamFormat) error

	// ResetWiring discards every mixer node and connection, returning the
	// graph to its freshly-constructed state. The built-in nodes survive.
	// Must not be called while the graph is started.
	ResetWiring()

	// SetVolume updates a node's scalar volume.
	SetVolume(node NodeID, volume float32)

	// ApplyRouting hands the backend an immutable snapshot of input→output
	// contribution weights. The backend must adopt it atomically.
	ApplyRouting(weights *RouteSnapshot)

	// InstallInputTap registers a tap on the hardware input. One tap at a
	// time; installing replaces the previous tap.
	InstallInputTap(bufferFrames int, tap TapFunc) error
	RemoveInputTap()

	Start() error
	Stop()
}
