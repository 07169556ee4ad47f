package engine

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Preset is a named value snapshot of all channel and routing state. It
// references no live engine structures and can outlive the engine that
// produced it.
type Preset struct {
	Name        string         `json:"name"`
	MaxChannels int            `json:"max_channels"`
	Inputs      []AudioChannel `json:"inputs"`
	Outputs     []AudioChannel `json:"outputs"`
	Routing     []float32      `json:"routing"`
}

func (p Preset) validate() error {
	if p.MaxChannels < 1 || p.MaxChannels > MaxBankChannels {
		return fmt.Errorf("preset channel count %d out of range [1,%d]", p.MaxChannels, MaxBankChannels)
	}
	if len(p.Inputs) != p.MaxChannels || len(p.Outputs) != p.MaxChannels {
		return fmt.Errorf("preset bank sizes %d/%d do not match channel count %d",
			len(p.Inputs), len(p.Outputs), p.MaxChannels)
	}
	if len(p.Routing) != p.MaxChannels*p.MaxChannels {
		return fmt.Errorf("preset routing has %d cells, want %d",
			len(p.Routing), p.MaxChannels*p.MaxChannels)
	}
	for i := range p.Inputs {
		if p.Inputs[i].ID != i+1 || p.Outputs[i].ID != i+1 {
			return fmt.Errorf("preset channel ids not sequential at slot %d", i+1)
		}
	}
	if err := validateLinks(p.Inputs); err != nil {
		return err
	}
	if err := validateLinks(p.Outputs); err != nil {
		return err
	}

	return nil
}

// validateLinks checks that a bank's linked sets stay inside the bank and
// mutual, the invariant LinkPair maintains on a live engine. Decoded preset
// documents arrive unchecked, so the invariant is enforced here too.
func validateLinks(bank []AudioChannel) error {
	for i := range bank {
		ch := &bank[i]
		for _, partnerID := range ch.Linked {
			if partnerID < 1 || partnerID > len(bank) || partnerID == ch.ID {
				return fmt.Errorf("preset channel %d links to invalid channel %d", ch.ID, partnerID)
			}
			if !slices.Contains(bank[partnerID-1].Linked, ch.ID) {
				return fmt.Errorf("preset channels %d and %d are not linked mutually", ch.ID, partnerID)
			}
		}
	}

	return nil
}

// SavePreset captures the current channel and routing state by value.
func (e *Engine) SavePreset(name string) Preset {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Preset{
		Name:        name,
		MaxChannels: e.maxChannels,
		Inputs:      cloneChannels(e.inputs),
		Outputs:     cloneChannels(e.outputs),
		Routing:     append([]float32(nil), e.routing...),
	}
}

// LoadPreset replaces all channel and routing state with the snapshot, then
// republishes the routing and every channel's effective level. The swap
// happens inside one critical section, so no partially-applied state is
// observable and nothing transient reaches the graph. The preset must match
// the engine's channel count; re-initialize first to change sizes.
func (e *Engine) LoadPreset(p Preset) error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("load preset %q: %w", p.Name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p.MaxChannels != e.maxChannels {
		return fmt.Errorf("load preset %q: sized for %d channels, engine has %d",
			p.Name, p.MaxChannels, e.maxChannels)
	}

	e.inputs = cloneChannels(p.Inputs)
	e.outputs = cloneChannels(p.Outputs)
	for i := range e.inputs {
		e.inputs[i].Gain = clampGain(e.inputs[i].Gain)
		e.inputs[i].Pan = clampPan(e.inputs[i].Pan)
		e.outputs[i].Gain = clampGain(e.outputs[i].Gain)
		e.outputs[i].Pan = clampPan(e.outputs[i].Pan)
	}
	e.routing = append([]float32(nil), p.Routing...)

	e.publishRoutesLocked()
	e.recomputeBankLocked(BankInput)
	e.recomputeBankLocked(BankOutput)

	e.logger.Info("preset loaded", zap.String("name", p.Name))
	e.notifyPresetLocked(p.Name)

	return nil
}
