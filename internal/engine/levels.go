package engine

import (
	"math"
	"sync/atomic"
)

// levelTable publishes per-channel effective levels as bit-cast float32
// atomics, so meter polling and the audio callback read them without ever
// touching the engine mutex.
type levelTable struct {
	inputs  []atomic.Uint32
	outputs []atomic.Uint32
}

func newLevelTable(maxChannels int) *levelTable {
	return &levelTable{
		inputs:  make([]atomic.Uint32, maxChannels),
		outputs: make([]atomic.Uint32, maxChannels),
	}
}

func (t *levelTable) bank(bank Bank) []atomic.Uint32 {
	if bank == BankOutput {
		return t.outputs
	}

	return t.inputs
}

func (t *levelTable) size() int {
	return len(t.inputs)
}

func (t *levelTable) store(bank Bank, id int, level float32) {
	t.bank(bank)[id-1].Store(math.Float32bits(level))
}

func (t *levelTable) load(bank Bank, id int) float32 {
	return math.Float32frombits(t.bank(bank)[id-1].Load())
}

// SetGain stores a channel's linear gain, clamped to [MinGain, MaxGain],
// and republishes the bank's effective levels.
func (e *Engine) SetGain(bank Bank, id int, gain float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Gain = clampGain(gain)
	e.recomputeBankLocked(bank)
	e.notifyChannelLocked(bank, id)

	return nil
}

// SetMute flips a channel's mute flag and republishes the bank's effective
// levels. Mute is moot while another channel in the bank holds a solo.
func (e *Engine) SetMute(bank Bank, id int, muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Muted = muted
	e.recomputeBankLocked(bank)
	e.notifyChannelLocked(bank, id)

	return nil
}

// SetSolo flips a channel's solo flag and republishes the bank's effective
// levels.
func (e *Engine) SetSolo(bank Bank, id int, solo bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Solo = solo
	e.recomputeBankLocked(bank)
	e.notifyChannelLocked(bank, id)

	return nil
}

// EffectiveLevel reports the post-mute/solo level last published for a
// channel. Lock-free; safe to poll from meter or display code at any rate.
func (e *Engine) EffectiveLevel(bank Bank, id int) (float32, error) {
	tbl := e.levels.Load()
	if id < 1 || id > tbl.size() {
		return 0, ErrInvalidChannel
	}

	return tbl.load(bank, id), nil
}

// MixedLevel reports the level feeding one output channel: the sum over all
// input channels of routing weight times input effective level. Lock-free.
func (e *Engine) MixedLevel(out int) (float32, error) {
	routes := e.routes.Load()
	tbl := e.levels.Load()
	if routes == nil || out < 1 || out > routes.MaxChannels() {
		return 0, ErrInvalidChannel
	}

	var sum float32
	n := min(routes.MaxChannels(), tbl.size())
	for in := 1; in <= n; in++ {
		w := routes.Weight(in, out)
		if w == 0 {
			continue
		}
		sum += w * tbl.load(BankInput, in)
	}

	return sum, nil
}

// recomputeBankLocked applies the solo override rule to one bank and
// publishes the result per channel: while any channel is soloed, non-solo
// channels go to zero and a soloed channel's own mute flag is ignored; with
// no solo active, muted channels go to zero and the rest pass their gain.
// Banks are independent; this never reads the other bank.
func (e *Engine) recomputeBankLocked(bank Bank) {
	channels := e.bankLocked(bank)

	anySolo := false
	for i := range channels {
		if channels[i].Solo {
			anySolo = true

			break
		}
	}

	tbl := e.levels.Load()
	for i := range channels {
		ch := &channels[i]

		var level float32
		switch {
		case anySolo && ch.Solo:
			level = ch.Gain
		case anySolo:
			level = 0
		case ch.Muted:
			level = 0
		default:
			level = ch.Gain
		}

		tbl.store(bank, ch.ID, level)
		if e.initialized {
			e.graph.SetVolume(e.nodeLocked(bank, ch.ID), level)
		}
	}
}
