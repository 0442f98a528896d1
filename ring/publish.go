// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"time"

	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/shmerr"
)

// mwmrIterationCap bounds the generation-wait spin: at least 1e5
// iterations before a publisher gives up with Timeout.
const mwmrIterationCap = 200_000

// Publisher appends messages to one topic's ring. The same type serves
// both SWMR and MWMR topics: the reserve step is identical (fetch-add on
// write_head); only the commit step differs, gated by geometry.kind.
type Publisher struct {
	geometry    topicGeometry
	publisherID uint16
}

// OpenPublisher attaches to an existing topic for publishing. publisherID
// is recorded in every slot header this publisher commits, for
// traceability across processes sharing the same ring.
func OpenPublisher(r *region.Region, topic string, publisherID uint16) (*Publisher, error) {
	g, err := attachTopic(r, topic)
	if err != nil {
		return nil, err
	}
	return &Publisher{geometry: g, publisherID: publisherID}, nil
}

// Publish reserves the next sequence number and commits payload into its
// slot, per the SWMR (4.3) or MWMR (4.4) algorithm selected by the
// topic's declared ring kind.
func (p *Publisher) Publish(payload []byte) shmerr.Code {
	payloadCap := p.geometry.payloadCap()
	if uint32(len(payload)) > payloadCap {
		return shmerr.PayloadTooLarge
	}

	old := p.geometry.desc.WriteHead().Add(1) - 1
	commitSeq := old + 1
	idx := p.geometry.slotIndex(commitSeq)
	slot := p.geometry.desc.SlotAt(idx)

	if p.geometry.kind == region.RingMWMR {
		if !waitForGeneration(slot, commitSeq, p.geometry.slotCount) {
			return shmerr.Timeout
		}
	}

	dst := slot.PayloadBytes()
	copy(dst, payload)
	slot.SetPayloadLen(uint32(len(payload)))
	slot.SetPublisherID(p.publisherID)
	slot.SetTimestampNs(uint64(time.Now().UnixNano()))

	// Release fence: every plain write above must be globally visible
	// before seq is published, per the memory ordering contract in 5.
	slot.Seq().Store(commitSeq)

	return shmerr.Ok
}

// waitForGeneration implements the MWMR generation-wait (4.4 step 4): the
// caller may proceed once the slot is unused or holds a strictly earlier
// generation than the sequence this publisher is about to commit.
func waitForGeneration(slot region.Slot, mySeq uint64, slotCount uint32) bool {
	myGeneration := mySeq / uint64(slotCount)
	var b backoff
	for i := 0; i < mwmrIterationCap; i++ {
		seq := slot.Seq().Load()
		if seq == 0 {
			return true
		}
		currentGeneration := seq / uint64(slotCount)
		if currentGeneration < myGeneration {
			return true
		}
		b.wait()
	}
	return false
}
