package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halwen/patchbay/internal/engine"
)

func TestInitializeDefaults(t *testing.T) {
	e, _ := createTestEngine(t, 8)

	assert.Equal(t, 8, e.MaxChannels())

	for _, bank := range []engine.Bank{engine.BankInput, engine.BankOutput} {
		channels := e.Channels(bank)
		require.Len(t, channels, 8)

		for i, ch := range channels {
			assert.Equal(t, i+1, ch.ID)
			assert.Equal(t, fmt.Sprintf("%s %d", titleFor(bank), i+1), ch.Name)
			assert.Equal(t, engine.TypeMono, ch.Type)
			assert.Equal(t, float32(1), ch.Gain)
			assert.False(t, ch.Muted)
			assert.False(t, ch.Solo)
			assert.False(t, ch.Connected)
			assert.Equal(t, float32(0), ch.Pan)
			assert.Empty(t, ch.Linked)
		}
	}
}

func titleFor(bank engine.Bank) string {
	if bank == engine.BankOutput {
		return "Output"
	}
	return "Input"
}

func TestInitializeBounds(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	assert.Error(t, e.Initialize(0))
	assert.Error(t, e.Initialize(-1))
	assert.Error(t, e.Initialize(engine.MaxBankChannels+1))

	assert.NoError(t, e.Initialize(1))
	assert.Equal(t, 1, e.MaxChannels())

	assert.NoError(t, e.Initialize(engine.MaxBankChannels))
	assert.Equal(t, engine.MaxBankChannels, e.MaxChannels())
}

func TestInitializeResetsState(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.SetName(engine.BankInput, 1, "Guitar"))
	require.NoError(t, e.SetGain(engine.BankInput, 1, 0.25))
	require.NoError(t, e.SetRouting(1, 4, 0.5))

	require.NoError(t, e.Initialize(4))

	ch, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	assert.Equal(t, "Input 1", ch.Name)
	assert.Equal(t, float32(1), ch.Gain)

	w, err := e.Routing(1, 4)
	require.NoError(t, err)
	assert.Equal(t, float32(0), w, "re-initialization should reset routing to the stereo default")
}

func TestChannelIDValidation(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	for _, id := range []int{0, -1, 5, 100} {
		_, err := e.Channel(engine.BankInput, id)
		assert.ErrorIs(t, err, engine.ErrInvalidChannel, "id %d should be rejected", id)

		assert.ErrorIs(t, e.SetName(engine.BankOutput, id, "x"), engine.ErrInvalidChannel)
		assert.ErrorIs(t, e.SetGain(engine.BankInput, id, 1), engine.ErrInvalidChannel)
		assert.ErrorIs(t, e.SetMute(engine.BankInput, id, true), engine.ErrInvalidChannel)
		assert.ErrorIs(t, e.SetSolo(engine.BankOutput, id, true), engine.ErrInvalidChannel)
		assert.ErrorIs(t, e.SetPan(engine.BankInput, id, 0), engine.ErrInvalidChannel)
		assert.ErrorIs(t, e.SetConnected(engine.BankInput, id, true), engine.ErrInvalidChannel)
	}
}

func TestChannelFieldSetters(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	require.NoError(t, e.SetName(engine.BankInput, 2, "Vocal"))
	require.NoError(t, e.SetType(engine.BankInput, 2, engine.TypeBinaural))
	require.NoError(t, e.SetConnected(engine.BankInput, 2, true))

	ch, err := e.Channel(engine.BankInput, 2)
	require.NoError(t, err)
	assert.Equal(t, "Vocal", ch.Name)
	assert.Equal(t, engine.TypeBinaural, ch.Type)
	assert.True(t, ch.Connected)

	// The sibling bank's channel 2 is untouched.
	out, err := e.Channel(engine.BankOutput, 2)
	require.NoError(t, err)
	assert.Equal(t, "Output 2", out.Name)
	assert.Equal(t, engine.TypeMono, out.Type)
	assert.False(t, out.Connected)
}

func TestSetPanClamps(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"in_range", 0.5, 0.5},
		{"above_max", 3, engine.MaxPan},
		{"below_min", -2.5, engine.MinPan},
		{"hard_left", -1, -1},
		{"hard_right", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, e.SetPan(engine.BankOutput, 1, tt.in))

			ch, err := e.Channel(engine.BankOutput, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch.Pan)
		})
	}
}

func TestChannelReturnsCopies(t *testing.T) {
	e, _ := createTestEngine(t, 4)

	ch, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	ch.Name = "Scribbled"
	ch.Gain = 0

	fresh, err := e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	assert.Equal(t, "Input 1", fresh.Name, "mutating a returned channel must not leak into the engine")
	assert.Equal(t, float32(1), fresh.Gain)

	bank := e.Channels(engine.BankInput)
	bank[0].Name = "Scribbled again"

	fresh, err = e.Channel(engine.BankInput, 1)
	require.NoError(t, err)
	assert.Equal(t, "Input 1", fresh.Name)
}
