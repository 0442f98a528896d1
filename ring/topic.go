// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared topic-attach plumbing for the publish and consume paths: both
// sides look a topic up once in the region's registry and cache the
// RingDescriptor and its derived geometry (slot mask, slot size, kind) locally so
// the hot path never re-walks the topic table.

package ring

import (
	"fmt"

	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/shmerr"
)

// topicGeometry is the attach-time snapshot every publisher and
// subscriber needs: the ring descriptor plus its power-of-two mask.
type topicGeometry struct {
	desc      region.RingDescriptor
	slotCount uint32
	mask      uint32
	slotSize  uint32
	kind      region.RingKind
}

func attachTopic(r *region.Region, name string) (topicGeometry, error) {
	th, err := r.Lookup(name)
	if err != nil {
		return topicGeometry{}, err
	}
	slotCount := th.SlotCount()
	if slotCount == 0 || slotCount&(slotCount-1) != 0 {
		return topicGeometry{}, fmt.Errorf("%w: topic %q has non-power-of-two slot count %d", shmerr.ErrInvalidArgs, name, slotCount)
	}
	return topicGeometry{
		desc:      th.Ring(),
		slotCount: slotCount,
		mask:      slotCount - 1,
		slotSize:  th.SlotSize(),
		kind:      th.Kind(),
	}, nil
}

// slotIndex is the branchless power-of-two wrap: index of the slot
// holding sequence number seq (seq is 1-based).
func (g topicGeometry) slotIndex(seq uint64) uint32 {
	return uint32((seq - 1) & uint64(g.mask))
}

// payloadCap is the maximum payload a slot in this ring can hold: the
// slot's full footprint minus the fixed SlotHeader.
func (g topicGeometry) payloadCap() uint32 {
	return g.slotSize - region.SlotHeaderSize
}
