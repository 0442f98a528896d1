// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package region

import (
	"sync/atomic"
	"unsafe"
)

// Region is a handle onto a mapped shared-memory region: a single
// contiguous []byte together with typed accessors for the RegionHeader,
// the topic table, and each topic's RingDescriptor and slot memory. All
// offsets are relative to mem[0], so a Region is safe to use from any
// process that has mapped the same backing object.
//
// Region never stores a native pointer across the process boundary; every
// accessor re-derives unsafe.Pointer(&mem[off]) on each call, the same
// idiom used by CreditWorthy-mmapforge's store.Seq and AlephTX-aleph-tx's
// seqlock helpers.
type Region struct {
	mem []byte
}

// FromBytes wraps an already-mapped byte slice. Callers (region.Build,
// region.Open) are responsible for the slice's lifetime.
func FromBytes(mem []byte) *Region {
	return &Region{mem: mem}
}

// Bytes returns the region's backing slice.
func (r *Region) Bytes() []byte { return r.mem }

// Size returns the length of the mapped region.
func (r *Region) Size() uint64 { return uint64(len(r.mem)) }

func (r *Region) byteAt(off uint64) *byte {
	return &r.mem[off]
}

func (r *Region) u32At(off uint64) *uint32 {
	return (*uint32)(unsafe.Pointer(&r.mem[off]))
}

func (r *Region) u64At(off uint64) *uint64 {
	return (*uint64)(unsafe.Pointer(&r.mem[off]))
}

func (r *Region) atomicU32At(off uint64) *atomic.Uint32 {
	return (*atomic.Uint32)(unsafe.Pointer(&r.mem[off]))
}

func (r *Region) atomicU64At(off uint64) *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Pointer(&r.mem[off]))
}

func (r *Region) sliceAt(off, n uint64) []byte {
	return r.mem[off : off+n]
}

// --- RegionHeader accessors ---

// CheckMagic validates the header's magic and version: a reader must
// never observe a partially initialized header. The builder writes
// Magic only after every other header field is in place, so an atomic
// load of Magic is sufficient to detect readiness.
func (r *Region) CheckMagic() bool {
	magic := r.atomicU32At(offHdrMagic).Load()
	version := r.u32At(offHdrVersion)
	return magic == Magic && *version == Version
}

func (r *Region) setMagic(v uint32) { r.atomicU32At(offHdrMagic).Store(v) }
func (r *Region) setVersion(v uint32) { *r.u32At(offHdrVersion) = v }

// RegionSize returns the region_size field recorded in the header.
func (r *Region) RegionSize() uint64 { return *r.u64At(offHdrRegionSize) }
func (r *Region) setRegionSize(v uint64) { *r.u64At(offHdrRegionSize) = v }

// TopicTableOffset returns the byte offset of the first TopicEntry.
func (r *Region) TopicTableOffset() uint64 { return *r.u64At(offHdrTopicTableOffset) }
func (r *Region) setTopicTableOffset(v uint64) { *r.u64At(offHdrTopicTableOffset) = v }

// TopicCount returns the number of topics recorded in the header.
func (r *Region) TopicCount() uint32 { return r.atomicU32At(offHdrTopicCount).Load() }
func (r *Region) setTopicCount(v uint32) { r.atomicU32At(offHdrTopicCount).Store(v) }

// --- Topic table ---

// topicOffset returns the base offset of the i'th TopicEntry.
func (r *Region) topicOffset(i uint32) uint64 {
	return r.TopicTableOffset() + uint64(i)*topicEntrySize
}

// TopicHandle is an accessor onto a single TopicEntry record.
type TopicHandle struct {
	r   *Region
	off uint64
}

// topicAt returns an accessor for the i'th slot of the topic table,
// without validating that i < TopicCount(); callers iterate within bounds.
func (r *Region) topicAt(i uint32) TopicHandle {
	return TopicHandle{r: r, off: r.topicOffset(i)}
}

// Name returns the topic's name with trailing NUL bytes trimmed.
func (t TopicHandle) Name() string {
	raw := t.r.sliceAt(t.off+offTopicName, MaxTopicName)
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

func (t TopicHandle) setName(name string) {
	raw := t.r.sliceAt(t.off+offTopicName, MaxTopicName)
	for i := range raw {
		raw[i] = 0
	}
	copy(raw, name)
}

// RingDescriptorOffset returns the byte offset of this topic's RingDescriptor.
func (t TopicHandle) RingDescriptorOffset() uint64 {
	return *t.r.u64At(t.off + offTopicRingDescriptorOffset)
}
func (t TopicHandle) setRingDescriptorOffset(v uint64) {
	*t.r.u64At(t.off+offTopicRingDescriptorOffset) = v
}

// SlotCount returns the topic's ring capacity, a power of two.
func (t TopicHandle) SlotCount() uint32 { return *t.r.u32At(t.off + offTopicSlotCount) }
func (t TopicHandle) setSlotCount(v uint32) { *t.r.u32At(t.off+offTopicSlotCount) = v }

// SlotSize returns the per-slot size in bytes, SlotHeader included; the
// payload capacity is SlotSize() - SlotHeaderSize.
func (t TopicHandle) SlotSize() uint32 { return *t.r.u32At(t.off + offTopicSlotSize) }
func (t TopicHandle) setSlotSize(v uint32) { *t.r.u32At(t.off+offTopicSlotSize) = v }

// Kind returns SWMR or MWMR.
func (t TopicHandle) Kind() RingKind { return RingKind(*t.r.u32At(t.off + offTopicRingKind)) }
func (t TopicHandle) setKind(v RingKind) { *t.r.u32At(t.off+offTopicRingKind) = uint32(v) }

// Ring returns the RingDescriptor accessor for this topic.
func (t TopicHandle) Ring() RingDescriptor {
	return RingDescriptor{r: t.r, off: t.RingDescriptorOffset()}
}

// --- RingDescriptor ---

// RingDescriptor is an accessor onto a topic's ring metadata: capacity,
// slot size, the base offset of slot memory, and the shared write_head
// counter used by both SWMR and MWMR publish paths.
type RingDescriptor struct {
	r   *Region
	off uint64
}

func (d RingDescriptor) SlotCount() uint32 { return *d.r.u32At(d.off + offRingSlotCount) }
func (d RingDescriptor) setSlotCount(v uint32) { *d.r.u32At(d.off+offRingSlotCount) = v }

func (d RingDescriptor) SlotSize() uint32 { return *d.r.u32At(d.off + offRingSlotSize) }
func (d RingDescriptor) setSlotSize(v uint32) { *d.r.u32At(d.off+offRingSlotSize) = v }

func (d RingDescriptor) SlotsBaseOffset() uint64 { return *d.r.u64At(d.off + offRingSlotsBaseOffset) }
func (d RingDescriptor) setSlotsBaseOffset(v uint64) { *d.r.u64At(d.off+offRingSlotsBaseOffset) = v }

// WriteHead is the monotonic fetch-add counter shared by every publisher
// of this ring; SWMR uses it purely as a sequence number, MWMR uses it as
// the slot-reservation ticket.
func (d RingDescriptor) WriteHead() *atomic.Uint64 {
	return d.r.atomicU64At(d.off + offRingWriteHead)
}

// stride is the total per-slot byte span: SlotSize (which already
// includes SlotHeader) cache-line aligned so adjacent slots never share a
// cache line on the hot publish path.
func (d RingDescriptor) stride() uint64 {
	return alignUp(uint64(d.SlotSize()), CacheLineSize)
}

// SlotAt returns the accessor for the slot at the given ring index
// (index, not sequence number — callers mask the sequence first).
func (d RingDescriptor) SlotAt(index uint32) Slot {
	off := d.SlotsBaseOffset() + uint64(index)*d.stride()
	payloadCap := d.SlotSize() - SlotHeaderSize
	return Slot{r: d.r, off: off, payloadCap: payloadCap}
}

// --- Slot ---

// Slot is an accessor onto one SlotHeader + payload record.
type Slot struct {
	r          *Region
	off        uint64
	payloadCap uint32
}

// Seq is the slot's committed sequence number: 0 means the slot has
// never been written, and any nonzero value is the 1-based sequence of
// the message currently (or most recently) occupying it. A publisher
// writes the payload and header fields first and stores Seq last;
// readers load Seq before and after reading the payload and compare the
// two to detect a torn read, rather than relying on parity.
func (s Slot) Seq() *atomic.Uint64 { return s.r.atomicU64At(s.off + offSlotSeq) }

func (s Slot) TimestampNs() uint64 { return *s.r.u64At(s.off + offSlotTimestampNs) }

// SetTimestampNs records the commit time. Plain write, protected by the
// seqlock discipline: callers must write this before the release-store
// of Seq, never after.
func (s Slot) SetTimestampNs(v uint64) { *s.r.u64At(s.off+offSlotTimestampNs) = v }

func (s Slot) PayloadLen() uint32 { return *s.r.u32At(s.off + offSlotPayloadLen) }

// SetPayloadLen records the committed payload length. See SetTimestampNs
// for the ordering requirement.
func (s Slot) SetPayloadLen(v uint32) { *s.r.u32At(s.off+offSlotPayloadLen) = v }

func (s Slot) PublisherID() uint16 {
	return *(*uint16)(unsafe.Pointer(&s.r.mem[s.off+offSlotPublisherID]))
}

// SetPublisherID records the committing publisher's identity. See
// SetTimestampNs for the ordering requirement.
func (s Slot) SetPublisherID(v uint16) {
	*(*uint16)(unsafe.Pointer(&s.r.mem[s.off+offSlotPublisherID])) = v
}

// PayloadCap returns the slot's maximum payload size.
func (s Slot) PayloadCap() uint32 { return s.payloadCap }

// PayloadBytes returns the slot's payload area, sized to the slot's fixed
// capacity; callers index it with [:PayloadLen()] once Seq has been
// verified stable.
func (s Slot) PayloadBytes() []byte {
	return s.r.sliceAt(s.off+SlotHeaderSize, uint64(s.payloadCap))
}
