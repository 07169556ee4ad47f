package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halwen/patchbay/internal/engine"
)

func routeWeight(t *testing.T, e *engine.Engine, in, out int) float32 {
	t.Helper()

	w, err := e.Routing(in, out)
	require.NoError(t, err)

	return w
}

func TestDefaultStereoRouting(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	for in := 1; in <= 4; in++ {
		for out := 1; out <= 4; out++ {
			want := float32(0)
			if (in == 1 && out == 1) || (in == 2 && out == 2) {
				want = 1
			}
			assert.Equal(t, want, routeWeight(t, e, in, out), "route %d->%d", in, out)
		}
	}
}

func TestDefaultRoutingSingleChannel(t *testing.T) {
	e, _ := createTestEngine(t, 1)

	assert.Equal(t, float32(1), routeWeight(t, e, 1, 1),
		"a one-channel engine still gets the 1->1 passthrough")
}

func TestSetRouting(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.SetRouting(3, 1, 0.75))
	assert.Equal(t, float32(0.75), routeWeight(t, e, 3, 1))

	// Overwriting works; nothing else moved.
	require.NoError(t, e.SetRouting(3, 1, 0.1))
	assert.Equal(t, float32(0.1), routeWeight(t, e, 3, 1))
	assert.Equal(t, float32(1), routeWeight(t, e, 1, 1))

	// Zero removes the route.
	require.NoError(t, e.SetRouting(1, 1, 0))
	assert.Equal(t, float32(0), routeWeight(t, e, 1, 1))
}

func TestRoutingBounds(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	assert.ErrorIs(t, e.SetRouting(0, 1, 1), engine.ErrInvalidChannel)
	assert.ErrorIs(t, e.SetRouting(1, 0, 1), engine.ErrInvalidChannel)
	assert.ErrorIs(t, e.SetRouting(5, 1, 1), engine.ErrInvalidChannel)
	assert.ErrorIs(t, e.SetRouting(1, 5, 1), engine.ErrInvalidChannel)

	_, err := e.Routing(0, 1)
	assert.ErrorIs(t, err, engine.ErrInvalidChannel)
	_, err = e.Routing(1, 17)
	assert.ErrorIs(t, err, engine.ErrInvalidChannel)
}

func TestClearRouting(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.SetRouting(3, 4, 0.5))
	e.ClearRouting()

	for in := 1; in <= 4; in++ {
		for out := 1; out <= 4; out++ {
			assert.Equal(t, float32(0), routeWeight(t, e, in, out),
				"clear should zero route %d->%d including the defaults", in, out)
		}
	}
}

func TestSetDefaultStereoRouting(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.SetRouting(3, 4, 0.5))
	require.NoError(t, e.SetRouting(1, 2, 0.5))

	e.SetDefaultStereoRouting()

	assert.Equal(t, float32(1), routeWeight(t, e, 1, 1))
	assert.Equal(t, float32(1), routeWeight(t, e, 2, 2))
	assert.Equal(t, float32(0), routeWeight(t, e, 1, 2))
	assert.Equal(t, float32(0), routeWeight(t, e, 3, 4))
}

func TestRoutingPushedToGraph(t *testing.T) {
	e, graph := createTestEngine(t, 4)
	require.NoError(t, e.SetupAudioGraph())

	before := graph.applyCount()
	require.NoError(t, e.SetRouting(2, 3, 0.4))

	assert.Equal(t, before+1, graph.applyCount(), "each routing change should push a snapshot")
	snap := graph.snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, float32(0.4), snap.Weight(2, 3))
	assert.Equal(t, float32(1), snap.Weight(1, 1))
}

func TestRouteSnapshotIsImmutable(t *testing.T) {
	e, graph := createTestEngine(t, 4)
	require.NoError(t, e.SetupAudioGraph())

	require.NoError(t, e.SetRouting(2, 3, 0.4))
	captured := graph.snapshot()

	require.NoError(t, e.SetRouting(2, 3, 0.9))

	assert.Equal(t, float32(0.4), captured.Weight(2, 3),
		"a handed-out snapshot must not change under the reader")
	assert.Equal(t, float32(0.9), graph.snapshot().Weight(2, 3))
}

func TestRouteSnapshotOutOfRangeReadsZero(t *testing.T) {
	e, graph := createTestEngine(t, 4)
	require.NoError(t, e.SetupAudioGraph())

	snap := graph.snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, float32(0), snap.Weight(0, 1))
	assert.Equal(t, float32(0), snap.Weight(1, 0))
	assert.Equal(t, float32(0), snap.Weight(5, 1))
	assert.Equal(t, float32(0), snap.Weight(1, 5))
}
