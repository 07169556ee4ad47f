package portaudio

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	pa "github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/devices"
	"github.com/halwen/patchbay/internal/engine"
	"github.com/halwen/patchbay/pkg/audio"
)

const (
	mainMixerNode  engine.NodeID = 0
	outputNode     engine.NodeID = 1
	firstMixerNode engine.NodeID = 2

	// Two built-in nodes plus one mixer node per channel on each bank.
	maxGraphNodes = 2 + 2*engine.MaxBankChannels
)

// mixPlan is the immutable wiring the realtime callback works from. It is
// rebuilt on Start, after which the topology is frozen until Stop.
type mixPlan struct {
	inputs  []engine.NodeID
	outputs []engine.NodeID
}

type tapState struct {
	fn engine.TapFunc
}

// liveGraph implements engine.Graph on a duplex PortAudio stream. Mixer
// nodes are virtual volume slots: nodes connected into the main mixer are
// input channels in attach order, nodes connected into the output node are
// output channels. The callback computes, per output channel,
// the routed sum of input buffers scaled by the node volumes.
type liveGraph struct {
	logger  *zap.Logger
	catalog *devices.Catalog

	// volumes is indexed by NodeID. Elements are touched atomically so the
	// control plane can write while the callback reads.
	volumes [maxGraphNodes]atomic.Uint32

	plan   atomic.Pointer[mixPlan]
	routes atomic.Pointer[engine.RouteSnapshot]
	tap    atomic.Pointer[tapState]

	mu          sync.Mutex
	nextNode    engine.NodeID
	inputOrder  []engine.NodeID
	outputOrder []engine.NodeID
	format      engine.StreamFormat
	stream      *pa.Stream
	running     bool
}

// NewGraph builds the PortAudio-backed realtime graph. The Backend
// dependency guarantees the PortAudio runtime outlives the graph.
func NewGraph(logger *zap.Logger, catalog *devices.Catalog, _ *Backend) engine.Graph {
	g := &liveGraph{
		logger:   logger,
		catalog:  catalog,
		nextNode: firstMixerNode,
	}
	g.volumes[mainMixerNode].Store(math.Float32bits(1))
	g.volumes[outputNode].Store(math.Float32bits(1))

	return g
}

func (g *liveGraph) AttachMixerNode() engine.NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	if int(g.nextNode) >= maxGraphNodes {
		g.logger.Error("mixer node capacity exhausted", zap.Int("capacity", maxGraphNodes))

		return maxGraphNodes - 1
	}

	id := g.nextNode
	g.nextNode++
	g.volumes[id].Store(math.Float32bits(1))

	return id
}

func (g *liveGraph) MainMixerNode() engine.NodeID { return mainMixerNode }

func (g *liveGraph) OutputNode() engine.NodeID { return outputNode }

func (g *liveGraph) Connect(from, to engine.NodeID, format engine.StreamFormat) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from < firstMixerNode || from >= g.nextNode {
		return fmt.Errorf("connect: unknown node %d", from)
	}

	switch to {
	case mainMixerNode:
		g.inputOrder = append(g.inputOrder, from)
	case outputNode:
		g.outputOrder = append(g.outputOrder, from)
	default:
		return fmt.Errorf("connect: node %d is not a mix destination", to)
	}
	g.format = format

	return nil
}

// ResetWiring reclaims every mixer node slot and forgets all connections, so
// the engine can rebuild the topology after re-initialization without leaking
// slots. The published plan is dropped too; a stale plan would map hardware
// channels to node ids the next setup hands out to different channels.
func (g *liveGraph) ResetWiring() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextNode = firstMixerNode
	g.inputOrder = nil
	g.outputOrder = nil
	g.plan.Store(nil)
}

func (g *liveGraph) SetVolume(node engine.NodeID, volume float32) {
	if node < 0 || int(node) >= maxGraphNodes {
		return
	}
	g.volumes[node].Store(math.Float32bits(volume))
}

func (g *liveGraph) ApplyRouting(weights *engine.RouteSnapshot) {
	g.routes.Store(weights)
}

func (g *liveGraph) InstallInputTap(bufferFrames int, tap engine.TapFunc) error {
	if tap == nil {
		return errors.New("install input tap: nil tap")
	}
	g.tap.Store(&tapState{fn: tap})
	g.logger.Debug("input tap installed", zap.Int("bufferFrames", bufferFrames))

	return nil
}

func (g *liveGraph) RemoveInputTap() {
	g.tap.Store(nil)
}

func (g *liveGraph) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return nil
	}

	inDev, outDev, err := g.pickDevices()
	if err != nil {
		return err
	}

	params := pa.HighLatencyParameters(inDev, outDev)
	rate := g.catalog.SampleRate()
	if rate <= 0 {
		rate = int(g.format.SampleRate)
	}
	params.SampleRate = float64(rate)
	params.FramesPerBuffer = g.catalog.BufferSize()
	if params.Input.Device != nil && len(g.inputOrder) > 0 && params.Input.Channels > len(g.inputOrder) {
		params.Input.Channels = len(g.inputOrder)
	}
	if params.Output.Device != nil && len(g.outputOrder) > 0 && params.Output.Channels > len(g.outputOrder) {
		params.Output.Channels = len(g.outputOrder)
	}

	g.freezePlanLocked()

	stream, err := pa.OpenStream(params, g.process)
	if err != nil {
		return fmt.Errorf("open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		if closeErr := stream.Close(); closeErr != nil {
			g.logger.Warn("close portaudio stream", zap.Error(closeErr))
		}

		return fmt.Errorf("start portaudio stream: %w", err)
	}

	g.stream = stream
	g.running = true
	g.logger.Info("portaudio stream running",
		zap.Float64("sampleRate", params.SampleRate),
		zap.Int("framesPerBuffer", params.FramesPerBuffer),
		zap.Int("inputChannels", params.Input.Channels),
		zap.Int("outputChannels", params.Output.Channels))

	return nil
}

func (g *liveGraph) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return
	}
	if err := g.stream.Stop(); err != nil {
		g.logger.Warn("stop portaudio stream", zap.Error(err))
	}
	if err := g.stream.Close(); err != nil {
		g.logger.Warn("close portaudio stream", zap.Error(err))
	}
	g.stream = nil
	g.running = false
}

// freezePlanLocked publishes the wiring the callback mixes from. The
// topology stays fixed until the next freeze.
func (g *liveGraph) freezePlanLocked() {
	g.plan.Store(&mixPlan{
		inputs:  slices.Clone(g.inputOrder),
		outputs: slices.Clone(g.outputOrder),
	})
}

// pickDevices resolves the hardware to stream with. The catalog's current
// interface wins; sides it cannot serve fall back to the platform defaults.
func (g *liveGraph) pickDevices() (*pa.DeviceInfo, *pa.DeviceInfo, error) {
	var in, out *pa.DeviceInfo

	if info, ok := g.catalog.CurrentInterface(); ok {
		dev, err := lookupDevice(info.ID)
		if err != nil {
			g.logger.Warn("current interface unavailable, using defaults",
				zap.Int("device", int(info.ID)), zap.Error(err))
		} else {
			if dev.MaxInputChannels > 0 {
				in = dev
			}
			if dev.MaxOutputChannels > 0 {
				out = dev
			}
		}
	}
	if in == nil {
		dev, err := pa.DefaultInputDevice()
		if err != nil {
			g.logger.Debug("no default input device", zap.Error(err))
		} else {
			in = dev
		}
	}
	if out == nil {
		dev, err := pa.DefaultOutputDevice()
		if err != nil {
			g.logger.Debug("no default output device", zap.Error(err))
		} else {
			out = dev
		}
	}
	if in == nil && out == nil {
		return nil, nil, errors.New("no usable audio devices")
	}

	return in, out, nil
}

// process is the realtime callback. It must not block, lock, or allocate.
func (g *liveGraph) process(in, out [][]float32) {
	if t := g.tap.Load(); t != nil {
		t.fn(in)
	}

	audio.Silence(out)

	plan := g.plan.Load()
	if plan == nil {
		return
	}
	routes := g.routes.Load()
	if routes == nil {
		return
	}

	main := g.volume(mainMixerNode) * g.volume(outputNode)
	for o := range out {
		if o >= len(plan.outputs) {
			break
		}
		scale := main * g.volume(plan.outputs[o])
		if scale == 0 {
			continue
		}
		buf := out[o]

		for i := range in {
			if i >= len(plan.inputs) {
				break
			}
			w := routes.Weight(i+1, o+1)
			if w == 0 {
				continue
			}
			gain := scale * w * g.volume(plan.inputs[i])
			if gain == 0 {
				continue
			}
			audio.Accumulate(buf, in[i], gain)
		}
		audio.Clip(buf)
	}
}

func (g *liveGraph) volume(node engine.NodeID) float32 {
	return math.Float32frombits(g.volumes[node].Load())
}
