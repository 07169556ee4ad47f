package engine

// Observer receives engine change notifications, the replacement for
// UI-bound published properties. Callbacks run synchronously on the control
// path: they must return quickly and must not call back into the engine.
type Observer interface {
	// ChannelChanged fires after any per-channel field changes.
	ChannelChanged(bank Bank, id int)

	// RoutingChanged fires after any routing matrix mutation.
	RoutingChanged()

	// PresetLoaded fires after a preset fully replaces engine state.
	PresetLoaded(name string)
}

// Subscribe registers an observer for the engine's lifetime.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.observers = append(e.observers, o)
}

func (e *Engine) notifyChannelLocked(bank Bank, id int) {
	for _, o := range e.observers {
		o.ChannelChanged(bank, id)
	}
}

func (e *Engine) notifyRoutingLocked() {
	for _, o := range e.observers {
		o.RoutingChanged()
	}
}

func (e *Engine) notifyPresetLocked(name string) {
	for _, o := range e.observers {
		o.PresetLoaded(name)
	}
}
