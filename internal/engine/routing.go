package engine

import "fmt"

// RouteSnapshot is an immutable copy of the routing matrix, published to the
// graph backend and readable from the realtime callback without locks.
type RouteSnapshot struct {
	maxChannels int
	weights     []float32
}

// MaxChannels reports the per-bank channel count the snapshot was sized for.
func (s *RouteSnapshot) MaxChannels() int {
	return s.maxChannels
}

// Weight returns the contribution gain from an input channel to an output
// channel; ids outside the snapshot read as zero.
func (s *RouteSnapshot) Weight(in, out int) float32 {
	if in < 1 || in > s.maxChannels || out < 1 || out > s.maxChannels {
		return 0
	}

	return s.weights[(in-1)*s.maxChannels+(out-1)]
}

// SetRouting sets the contribution gain from an input channel to an output
// channel.
func (e *Engine) SetRouting(in, out int, gain float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.routeIndexLocked(in, out)
	if err != nil {
		return err
	}

	e.routing[idx] = gain
	e.publishRoutesLocked()
	e.notifyRoutingLocked()

	return nil
}

// Routing returns one routing matrix cell.
func (e *Engine) Routing(in, out int) (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.routeIndexLocked(in, out)
	if err != nil {
		return 0, err
	}

	return e.routing[idx], nil
}

// ClearRouting zeroes every routing cell. Nothing else clears the matrix
// implicitly.
func (e *Engine) ClearRouting() {
	e.mu.Lock()
	defer e.mu.Unlock()

	clear(e.routing)
	e.publishRoutesLocked()
	e.notifyRoutingLocked()
}

// SetDefaultStereoRouting clears the matrix and restores the identity
// passthrough on channels 1 and 2.
func (e *Engine) SetDefaultStereoRouting() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setDefaultStereoLocked()
	e.publishRoutesLocked()
	e.notifyRoutingLocked()
}

func (e *Engine) setDefaultStereoLocked() {
	clear(e.routing)
	e.routing[0] = 1
	if e.maxChannels >= 2 {
		e.routing[e.maxChannels+1] = 1
	}
}

func (e *Engine) routeIndexLocked(in, out int) (int, error) {
	if in < 1 || in > e.maxChannels {
		return 0, fmt.Errorf("input channel %d: %w", in, ErrInvalidChannel)
	}
	if out < 1 || out > e.maxChannels {
		return 0, fmt.Errorf("output channel %d: %w", out, ErrInvalidChannel)
	}

	return (in-1)*e.maxChannels + (out - 1), nil
}

// publishRoutesLocked snapshots the matrix and hands it to the lock-free
// readers and, once the graph is set up, to the backend.
func (e *Engine) publishRoutesLocked() {
	snap := &RouteSnapshot{
		maxChannels: e.maxChannels,
		weights:     append([]float32(nil), e.routing...),
	}
	e.routes.Store(snap)
	if e.initialized {
		e.graph.ApplyRouting(snap)
	}
}
