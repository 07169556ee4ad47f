package engine

import "go.uber.org/zap"

// defaultBusChannels is what unassigned users map to: the default stereo
// bus.
var defaultBusChannels = []int{1, 2}

type assignment struct {
	inputs  []int
	outputs []int
}

// AssignInputChannels records which input channels carry a user's audio.
// Ids outside [1,maxChannels] are dropped silently rather than rejected, so
// a stale caller never loses the valid part of an assignment.
func (e *Engine) AssignInputChannels(userID string, ids []int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := e.assignmentLocked(userID)
	a.inputs = e.filterChannelIDsLocked(ids)

	e.logger.Debug("input channels assigned",
		zap.String("user", userID),
		zap.Ints("channels", a.inputs))
}

// AssignOutputChannels records which output channels carry a user's audio.
func (e *Engine) AssignOutputChannels(userID string, ids []int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := e.assignmentLocked(userID)
	a.outputs = e.filterChannelIDsLocked(ids)

	e.logger.Debug("output channels assigned",
		zap.String("user", userID),
		zap.Ints("channels", a.outputs))
}

// Unassign removes both directions of a user's mapping, typically when the
// participant leaves.
func (e *Engine) Unassign(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.assignments, userID)
}

// UserInputChannels returns the input channels assigned to a user, or the
// default stereo bus when the user has no input assignment.
func (e *Engine) UserInputChannels(userID string) []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a := e.assignments[userID]; a != nil && a.inputs != nil {
		return append([]int(nil), a.inputs...)
	}

	return append([]int(nil), defaultBusChannels...)
}

// UserOutputChannels returns the output channels assigned to a user, or the
// default stereo bus when the user has no output assignment.
func (e *Engine) UserOutputChannels(userID string) []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a := e.assignments[userID]; a != nil && a.outputs != nil {
		return append([]int(nil), a.outputs...)
	}

	return append([]int(nil), defaultBusChannels...)
}

func (e *Engine) assignmentLocked(userID string) *assignment {
	a := e.assignments[userID]
	if a == nil {
		a = &assignment{}
		e.assignments[userID] = a
	}

	return a
}

func (e *Engine) filterChannelIDsLocked(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id >= 1 && id <= e.maxChannels {
			out = append(out, id)
		}
	}

	return out
}
