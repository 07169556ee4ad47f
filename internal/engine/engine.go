// Package engine implements the multi-channel audio routing and mixing core:
// two banks of up to 64 logical channels with independent gain/mute/solo/pan
// state, stereo channel linking, an NxN input→output routing matrix, and
// named preset snapshots. The engine drives an external realtime audio graph
// through the Graph interface and never processes samples itself.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/config"
)

// Engine owns the canonical channel, routing, and assignment state. All
// mutating operations serialize on one mutex; the realtime side is fed
// exclusively through pushed volumes, pushed routing snapshots, and the
// atomic level table, so the audio callback never contends with the control
// plane.
type Engine struct {
	logger *zap.Logger
	graph  Graph
	format StreamFormat

	mu          sync.Mutex
	maxChannels int
	inputs      []AudioChannel
	outputs     []AudioChannel
	routing     []float32
	assignments map[string]*assignment
	observers   []Observer

	initialized bool
	running     bool
	inputNodes  []NodeID
	outputNodes []NodeID

	levels atomic.Pointer[levelTable]
	routes atomic.Pointer[RouteSnapshot]
}

// NewEngine constructs an engine sized from configuration. The graph is not
// touched until SetupAudioGraph.
func NewEngine(logger *zap.Logger, cfg *config.Config, graph Graph) (*Engine, error) {
	e := &Engine{
		logger: logger,
		graph:  graph,
		format: StreamFormat{
			SampleRate: float64(cfg.Audio.SampleRate),
			Channels:   2,
		},
		assignments: make(map[string]*assignment),
	}

	if err := e.Initialize(cfg.Audio.MaxChannels); err != nil {
		return nil, err
	}

	return e, nil
}

// SetupAudioGraph attaches one mixer node per channel, wires input nodes
// into the graph's main mixer and output nodes into the hardware output,
// then publishes the current routing and every effective level. Idempotent;
// on a connection error the engine stays unconfigured. The graph's wiring
// is reset first, so re-initialized engines and failed setups never leave
// stale nodes behind.
func (e *Engine) SetupAudioGraph() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	e.graph.ResetWiring()

	inputNodes := make([]NodeID, e.maxChannels)
	for i := range inputNodes {
		node := e.graph.AttachMixerNode()
		if err := e.graph.Connect(node, e.graph.MainMixerNode(), e.format); err != nil {
			return fmt.Errorf("connect input channel %d: %w", i+1, err)
		}
		inputNodes[i] = node
	}

	outputNodes := make([]NodeID, e.maxChannels)
	for i := range outputNodes {
		node := e.graph.AttachMixerNode()
		if err := e.graph.Connect(node, e.graph.OutputNode(), e.format); err != nil {
			return fmt.Errorf("connect output channel %d: %w", i+1, err)
		}
		outputNodes[i] = node
	}

	e.inputNodes = inputNodes
	e.outputNodes = outputNodes
	e.initialized = true

	e.graph.ApplyRouting(e.routes.Load())
	e.recomputeBankLocked(BankInput)
	e.recomputeBankLocked(BankOutput)

	e.logger.Info("audio graph configured",
		zap.Int("channelsPerBank", e.maxChannels),
		zap.Float64("sampleRate", e.format.SampleRate))

	return nil
}

// Start brings the realtime graph up. It requires a prior SetupAudioGraph
// and wraps backend failures in ErrStartFailure; the engine keeps its
// configuration either way, so Start may simply be retried.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrEngineNotInitialized
	}
	if e.running {
		return nil
	}

	if err := e.graph.Start(); err != nil {
		e.logger.Error("audio graph failed to start", zap.Error(err))

		return fmt.Errorf("%w: %w", ErrStartFailure, err)
	}

	e.running = true
	e.logger.Info("audio graph started")

	return nil
}

// Stop halts the realtime graph. Safe to call when not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.graph.Stop()
	e.running = false
	e.logger.Info("audio graph stopped")
}

// Running reports whether the realtime graph is currently started.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.running
}

// InstallInputTap forwards a tap onto the graph's hardware input, for
// consumers such as recording or relay subsystems.
func (e *Engine) InstallInputTap(bufferFrames int, tap TapFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrEngineNotInitialized
	}

	return e.graph.InstallInputTap(bufferFrames, tap)
}

// RemoveInputTap detaches the input tap, if any.
func (e *Engine) RemoveInputTap() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		e.graph.RemoveInputTap()
	}
}

func (e *Engine) nodeLocked(bank Bank, id int) NodeID {
	if bank == BankOutput {
		return e.outputNodes[id-1]
	}

	return e.inputNodes[id-1]
}
