package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halwen/patchbay/internal/engine"
)

func TestLinkPair(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.LinkPair(engine.BankInput, 1, 2, "Synth"))

	left, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	right, err := e.Channel(engine.BankInput, 2)
	require.NoError(t, err)

	assert.Equal(t, "Synth L", left.Name)
	assert.Equal(t, "Synth R", right.Name)
	assert.Equal(t, engine.TypeStereo, left.Type)
	assert.Equal(t, engine.TypeStereo, right.Type)
	assert.Equal(t, []int{2}, left.Linked)
	assert.Equal(t, []int{1}, right.Linked)
}

func TestLinkPairValidation(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	assert.ErrorIs(t, e.LinkPair(engine.BankInput, 1, 1, "Self"), engine.ErrInvalidChannel)
	assert.ErrorIs(t, e.LinkPair(engine.BankInput, 0, 2, "Bad"), engine.ErrInvalidChannel)
	assert.ErrorIs(t, e.LinkPair(engine.BankInput, 1, 5, "Bad"), engine.ErrInvalidChannel)

	// Failed attempts leave no partial linkage behind.
	ch, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	assert.Empty(t, ch.Linked)
	assert.Equal(t, "Input 1", ch.Name)
}

func TestRelinkDetachesOldPartner(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.LinkPair(engine.BankInput, 1, 2, "Pair A"))
	require.NoError(t, e.LinkPair(engine.BankInput, 2, 3, "Pair B"))

	one, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	two, err := e.Channel(engine.BankInput, 2)
	require.NoError(t, err)
	three, err := e.Channel(engine.BankInput, 3)
	require.NoError(t, err)

	assert.Empty(t, one.Linked, "abandoned partner should be fully detached")
	assert.Equal(t, []int{3}, two.Linked)
	assert.Equal(t, []int{2}, three.Linked)
	assert.Equal(t, "Pair B L", two.Name)
	assert.Equal(t, "Pair B R", three.Name)
}

func TestLinkBanksAreSeparate(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.LinkPair(engine.BankOutput, 1, 2, "Mains"))

	in, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	assert.Empty(t, in.Linked)
	assert.Equal(t, engine.TypeMono, in.Type)

	out, err := e.Channel(engine.BankOutput, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, out.Linked)
}

func TestLinkedChannelsKeepIndependentLevels(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.LinkPair(engine.BankInput, 1, 2, "Keys"))

	// Linking groups identity, not level state.
	require.NoError(t, e.SetGain(engine.BankInput, 1, 0.5))
	assert.Equal(t, float32(0.5), effectiveLevel(t, e, engine.BankInput, 1))
	assert.Equal(t, float32(1), effectiveLevel(t, e, engine.BankInput, 2))

	require.NoError(t, e.SetMute(engine.BankInput, 2, true))
	assert.Equal(t, float32(0.5), effectiveLevel(t, e, engine.BankInput, 1))
	assert.Equal(t, float32(0), effectiveLevel(t, e, engine.BankInput, 2))
}
