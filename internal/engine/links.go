package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// LinkPair groups two channels of one bank into a stereo pair: both become
// type stereo, they are renamed "{base} L" / "{base} R", and each lists the
// other as its sole linked channel. Re-linking a channel overwrites its
// previous pairing, and the abandoned partner is detached so linkage stays
// mutual. Surround types are tags only; grouping wider than a pair is not
// performed here.
func (e *Engine) LinkPair(bank Bank, leftID, rightID int, baseName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	left, err := e.channelLocked(bank, leftID)
	if err != nil {
		return err
	}
	right, err := e.channelLocked(bank, rightID)
	if err != nil {
		return err
	}
	if leftID == rightID {
		return fmt.Errorf("%s channel %d cannot link to itself: %w", bank, leftID, ErrInvalidChannel)
	}

	e.detachLinksLocked(bank, left)
	e.detachLinksLocked(bank, right)

	left.Type = TypeStereo
	right.Type = TypeStereo
	left.Name = baseName + " L"
	right.Name = baseName + " R"
	left.Linked = []int{rightID}
	right.Linked = []int{leftID}

	e.logger.Debug("channels linked",
		zap.Stringer("bank", bank),
		zap.Int("left", leftID),
		zap.Int("right", rightID),
		zap.String("name", baseName))

	e.notifyChannelLocked(bank, leftID)
	e.notifyChannelLocked(bank, rightID)

	return nil
}

// detachLinksLocked removes the channel from every partner's linked set and
// clears its own, keeping the mutual-linkage invariant across re-links.
func (e *Engine) detachLinksLocked(bank Bank, ch *AudioChannel) {
	for _, partnerID := range ch.Linked {
		partner, err := e.channelLocked(bank, partnerID)
		if err != nil {
			continue
		}
		partner.Linked = removeID(partner.Linked, ch.ID)
	}
	ch.Linked = nil
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}

	return out
}
