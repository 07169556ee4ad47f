package engine

import "fmt"

// Bank selects one of the two independent channel sets. Mute/solo state in
// one bank never influences effective levels in the other.
type Bank int

const (
	BankInput Bank = iota
	BankOutput
)

func (b Bank) String() string {
	switch b {
	case BankInput:
		return "input"
	case BankOutput:
		return "output"
	default:
		return fmt.Sprintf("bank(%d)", int(b))
	}
}

// ChannelType tags how a channel is meant to be interpreted downstream.
// Only stereo carries linkage semantics; the surround types are labels.
type ChannelType string

const (
	TypeMono       ChannelType = "mono"
	TypeStereo     ChannelType = "stereo"
	TypeBinaural   ChannelType = "binaural"
	TypeSurround51 ChannelType = "surround51"
	TypeSurround71 ChannelType = "surround71"
)

// Gain and pan bounds enforced on write.
const (
	MinGain float32 = 0
	MaxGain float32 = 2
	MinPan  float32 = -1
	MaxPan  float32 = 1
)

// MaxBankChannels is the hard upper bound on channels per bank.
const MaxBankChannels = 64

// AudioChannel is one logical channel slot. Values handed out by the engine
// are copies; state is only mutated through engine operations.
type AudioChannel struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Type      ChannelType `json:"type"`
	Connected bool        `json:"connected"`
	Gain      float32     `json:"gain"`
	Muted     bool        `json:"muted"`
	Solo      bool        `json:"solo"`
	Pan       float32     `json:"pan"`
	Linked    []int       `json:"linked,omitempty"`
}

func defaultChannel(bank Bank, id int) AudioChannel {
	name := fmt.Sprintf("Input %d", id)
	if bank == BankOutput {
		name = fmt.Sprintf("Output %d", id)
	}

	return AudioChannel{
		ID:   id,
		Name: name,
		Type: TypeMono,
		Gain: 1.0,
	}
}

func (c AudioChannel) clone() AudioChannel {
	out := c
	if c.Linked != nil {
		out.Linked = append([]int(nil), c.Linked...)
	}

	return out
}

func clampGain(v float32) float32 {
	switch {
	case v < MinGain:
		return MinGain
	case v > MaxGain:
		return MaxGain
	default:
		return v
	}
}

func clampPan(v float32) float32 {
	switch {
	case v < MinPan:
		return MinPan
	case v > MaxPan:
		return MaxPan
	default:
		return v
	}
}
