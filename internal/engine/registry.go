package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Initialize allocates both channel banks with default state: names
// "Input N"/"Output N", type mono, gain 1.0, unmuted, unsoloed, centered
// pan, no links. The routing matrix resets to the default stereo
// passthrough. Re-invocation discards all prior channel state, user
// assignments, and graph wiring; SetupAudioGraph must be called again
// afterwards.
func (e *Engine) Initialize(maxChannels int) error {
	if maxChannels < 1 || maxChannels > MaxBankChannels {
		return fmt.Errorf("max channels must be in [1,%d], got %d", MaxBankChannels, maxChannels)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		e.graph.Stop()
		e.running = false
	}
	e.initialized = false
	e.inputNodes = nil
	e.outputNodes = nil
	clear(e.assignments)

	e.maxChannels = maxChannels
	e.inputs = make([]AudioChannel, maxChannels)
	e.outputs = make([]AudioChannel, maxChannels)
	for i := range e.inputs {
		e.inputs[i] = defaultChannel(BankInput, i+1)
		e.outputs[i] = defaultChannel(BankOutput, i+1)
	}

	e.routing = make([]float32, maxChannels*maxChannels)
	e.setDefaultStereoLocked()

	e.levels.Store(newLevelTable(maxChannels))
	e.publishRoutesLocked()
	e.recomputeBankLocked(BankInput)
	e.recomputeBankLocked(BankOutput)

	e.logger.Info("channel banks initialized", zap.Int("channelsPerBank", maxChannels))

	return nil
}

// MaxChannels reports the current per-bank channel count.
func (e *Engine) MaxChannels() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.maxChannels
}

// Channel returns a copy of one channel's state.
func (e *Engine) Channel(bank Bank, id int) (AudioChannel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return AudioChannel{}, err
	}

	return ch.clone(), nil
}

// Channels returns a copy of an entire bank, ordered by channel id.
func (e *Engine) Channels(bank Bank) []AudioChannel {
	e.mu.Lock()
	defer e.mu.Unlock()

	return cloneChannels(e.bankLocked(bank))
}

// SetName relabels a channel.
func (e *Engine) SetName(bank Bank, id int, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Name = name
	e.notifyChannelLocked(bank, id)

	return nil
}

// SetType retags a channel. Types carry no grouping semantics on their own;
// linking is done through LinkPair.
func (e *Engine) SetType(bank Bank, id int, typ ChannelType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Type = typ
	e.notifyChannelLocked(bank, id)

	return nil
}

// SetPan stores a channel's pan position, clamped to [MinPan, MaxPan].
func (e *Engine) SetPan(bank Bank, id int, pan float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Pan = clampPan(pan)
	e.notifyChannelLocked(bank, id)

	return nil
}

// SetConnected flags whether a source is currently driving the channel.
func (e *Engine) SetConnected(bank Bank, id int, connected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, err := e.channelLocked(bank, id)
	if err != nil {
		return err
	}

	ch.Connected = connected
	e.notifyChannelLocked(bank, id)

	return nil
}

func (e *Engine) bankLocked(bank Bank) []AudioChannel {
	if bank == BankOutput {
		return e.outputs
	}

	return e.inputs
}

func (e *Engine) channelLocked(bank Bank, id int) (*AudioChannel, error) {
	if id < 1 || id > e.maxChannels {
		return nil, fmt.Errorf("%s channel %d: %w", bank, id, ErrInvalidChannel)
	}

	return &e.bankLocked(bank)[id-1], nil
}

func cloneChannels(channels []AudioChannel) []AudioChannel {
	out := make([]AudioChannel, len(channels))
	for i := range channels {
		out[i] = channels[i].clone()
	}

	return out
}
