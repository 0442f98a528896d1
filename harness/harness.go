// Package harness exposes accessors onto sequence counters and slot
// state that property tests need but the publish/consume hot paths never
// touch directly, plus a bounded trace of recent publish/consume outcomes
// for diagnosing a failing property run.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package harness

import (
	"github.com/eapache/queue"

	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/shmerr"
)

// Inspector is a read-only accessor onto one topic's raw ring state, used
// by property tests to assert invariants the public ring API deliberately
// does not surface: per-slot sequence placement, write_head monotonicity,
// and similar internal bookkeeping.
type Inspector struct {
	ring      region.RingDescriptor
	slotCount uint32
}

// Open attaches an inspector to an existing topic.
func Open(r *region.Region, topic string) (*Inspector, error) {
	th, err := r.Lookup(topic)
	if err != nil {
		return nil, err
	}
	return &Inspector{ring: th.Ring(), slotCount: th.SlotCount()}, nil
}

// WriteHead returns the ring's current write_head, which must never
// decrease across any two calls.
func (ins *Inspector) WriteHead() uint64 { return ins.ring.WriteHead().Load() }

// SlotCount returns the ring's capacity.
func (ins *Inspector) SlotCount() uint32 { return ins.slotCount }

// SlotSeq returns the raw seq word of the slot at the given physical
// index, for asserting that every slot's seq is either 0 or satisfies
// (seq-1) mod slot_count == index.
func (ins *Inspector) SlotSeq(index uint32) uint64 {
	return ins.ring.SlotAt(index).Seq().Load()
}

// AllSeqs returns every physical slot's current seq, in index order.
func (ins *Inspector) AllSeqs() []uint64 {
	out := make([]uint64, ins.slotCount)
	for i := range out {
		out[i] = ins.SlotSeq(uint32(i))
	}
	return out
}

// Event records one publish or consume call's outcome for the trace.
type Event struct {
	Kind        string // "publish" or "consume"
	Seq         uint64
	Code        shmerr.Code
	PayloadLen  int
	PublisherID uint16
}

// Trace is a bounded FIFO of recent Events, built on github.com/eapache/queue
// so appends and evictions are O(1) amortized without a slice-shift.
// Property tests drain it after a failing run to see the tail of calls
// that led to the violation.
type Trace struct {
	q        *queue.Queue
	capacity int
}

// NewTrace creates a trace that retains at most capacity events.
func NewTrace(capacity int) *Trace {
	return &Trace{q: queue.New(), capacity: capacity}
}

// Record appends ev, evicting the oldest event if the trace is full.
func (t *Trace) Record(ev Event) {
	t.q.Add(ev)
	for t.q.Length() > t.capacity {
		t.q.Remove()
	}
}

// Events returns a snapshot of the retained events, oldest first.
func (t *Trace) Events() []Event {
	out := make([]Event, t.q.Length())
	for i := range out {
		out[i] = t.q.Get(i).(Event)
	}
	return out
}

// Len returns the number of events currently retained.
func (t *Trace) Len() int { return t.q.Length() }
