// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/shmerr"
)

// Subscriber is a private, process-local cursor over one topic's ring.
// Multiple subscribers may attach to the same topic independently; none
// coordinate with each other or with the writer.
type Subscriber struct {
	geometry     topicGeometry
	lastSeq      uint64
	skippedCount uint64
}

// OpenSubscriber attaches to an existing topic for reading, with a fresh
// cursor (last_seq == 0: read everything still present from the start).
func OpenSubscriber(r *region.Region, topic string) (*Subscriber, error) {
	g, err := attachTopic(r, topic)
	if err != nil {
		return nil, err
	}
	return &Subscriber{geometry: g}, nil
}

// LastSeq returns the subscriber's current cursor.
func (s *Subscriber) LastSeq() uint64 { return s.lastSeq }

// SkippedCount returns the number of messages this subscriber is known
// to have missed, from lag jumps and torn-read re-syncs.
func (s *Subscriber) SkippedCount() uint64 { return s.skippedCount }

// Consume implements the twelve-step algorithm in 4.5: optimistic read
// with pre/post sequence verification, lag detection, and forward-jump
// recovery. It writes up to len(buf) bytes and returns the number of
// payload bytes written, the committing publisher's id, and a code
// describing the outcome.
func (s *Subscriber) Consume(buf []byte) (n int, publisherID uint16, code shmerr.Code) {
	slotCount := uint64(s.geometry.slotCount)

	// Step 1-2.
	w := s.geometry.desc.WriteHead().Load()
	next := s.lastSeq + 1
	if next > w {
		return 0, 0, shmerr.NoData
	}

	// Step 3: lag jump.
	if w-next >= slotCount {
		newStart := w - slotCount + 1
		s.skippedCount += w - next
		s.lastSeq = newStart - 1
		next = newStart
		w = s.geometry.desc.WriteHead().Load()
		if next > w {
			return 0, 0, shmerr.NoData
		}
	}

	// Step 4.
	idx := s.geometry.slotIndex(next)
	slot := s.geometry.desc.SlotAt(idx)

	// Step 5.
	seqPre := slot.Seq().Load()

	// Step 6.
	if seqPre == 0 || seqPre < next {
		return 0, 0, shmerr.NoData
	}

	// Step 7.
	if seqPre > next {
		s.skippedCount += seqPre - next
		s.lastSeq = seqPre - 1
		return 0, 0, shmerr.NoData
	}

	// Step 8.
	payloadLen := slot.PayloadLen()
	if payloadLen > uint32(len(buf)) {
		s.lastSeq = next
		return 0, 0, shmerr.Truncated
	}

	// Step 9.
	pid := slot.PublisherID()
	copy(buf, slot.PayloadBytes()[:payloadLen])

	// Step 10-11: acquire fence via relaxed reload, verifying the copy
	// above was not torn by a writer lapping this slot mid-read.
	seqPost := slot.Seq().Load()
	if seqPost != seqPre {
		s.skippedCount++
		s.lastSeq = s.geometry.desc.WriteHead().Load()
		return 0, 0, shmerr.NoData
	}

	// Step 12.
	s.lastSeq = next
	return int(payloadLen), pid, shmerr.Ok
}
