// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package region

import (
	"fmt"

	"github.com/momentics/shmbus/shmerr"
)

// Builder constructs a fresh shared-memory region: it computes the layout
// for the requested topics, creates and sizes the backing object, maps it,
// zeroes every byte the layout will use, and writes the header's magic
// last so CheckMagic never observes a partially built region.
type Builder struct {
	Name     string // backing object name, e.g. "/shmbus-orders"
	Topics   []TopicConfig
	// TotalSize optionally pins the region to an exact byte size; Build
	// fails with ErrOutOfRegion if the requested topics don't fit. Zero
	// means "size the region exactly to fit the requested topics".
	TotalSize uint64
}

// Build creates a new named region sized to fit every topic's ring, maps
// it into this process, and returns the attached Region. The caller is
// the region's sole owner and must call the returned closer when done;
// other processes attach with Open.
func Build(b Builder) (*Region, func() error, error) {
	if b.Name == "" {
		return nil, nil, shmerr.New(shmerr.Error, "region name must not be empty").WithContext("op", "Build")
	}
	if len(b.Topics) == 0 {
		return nil, nil, shmerr.New(shmerr.Error, "region must declare at least one topic").WithContext("op", "Build")
	}
	seen := make(map[string]struct{}, len(b.Topics))
	for _, t := range b.Topics {
		if t.Name == "" || len(t.Name) >= MaxTopicName {
			return nil, nil, fmt.Errorf("%w: %q", shmerr.ErrInvalidArgs, t.Name)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, nil, fmt.Errorf("%w: %q", shmerr.ErrDuplicateTopic, t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	needed, plan := planLayout(b.Topics)
	size := needed
	if b.TotalSize != 0 {
		if b.TotalSize < needed {
			return nil, nil, fmt.Errorf("%w: need %d bytes, region is %d", shmerr.ErrOutOfRegion, needed, b.TotalSize)
		}
		size = b.TotalSize
	}
	if size < MinRegionSize {
		size = MinRegionSize
	}

	mem, closer, err := createAndMap(b.Name, size)
	if err != nil {
		return nil, nil, err
	}
	for i := range mem {
		mem[i] = 0
	}

	r := FromBytes(mem)
	r.setVersion(Version)
	r.setRegionSize(uint64(size))
	r.setTopicTableOffset(plan.topicTableOffset)
	r.setTopicCount(uint32(len(plan.topics)))

	for i, pt := range plan.topics {
		th := r.topicAt(uint32(i))
		th.setName(pt.cfg.Name)
		th.setRingDescriptorOffset(pt.ringOffset)
		th.setSlotCount(pt.slotCount)
		th.setSlotSize(pt.slotSize)
		th.setKind(pt.cfg.Kind)

		rd := th.Ring()
		rd.setSlotCount(pt.slotCount)
		rd.setSlotSize(pt.slotSize)
		rd.setSlotsBaseOffset(pt.slotsBaseOffset)
		rd.WriteHead().Store(0)
	}

	// Magic is written last and with a release store: any process that
	// observes Magic via CheckMagic sees a fully formed header and topic
	// table.
	r.setMagic(Magic)

	return r, closer, nil
}

type plannedTopic struct {
	cfg             TopicConfig
	ringOffset      uint64
	slotCount       uint32
	slotSize        uint32
	slotsBaseOffset uint64
}

type layoutPlan struct {
	topicTableOffset uint64
	topics           []plannedTopic
}

// planLayout lays the region out as: RegionHeader, then the topic table as
// one contiguous array of TopicEntry records (sized up front from
// len(topics), not interleaved per-topic), then for each topic a
// cache-line-aligned RingDescriptor immediately followed by its slot
// memory. It returns the total region size required.
func planLayout(topics []TopicConfig) (uint64, layoutPlan) {
	off := alignUp(regionHeaderSize, 8)
	topicTableOffset := off
	off += uint64(len(topics)) * topicEntrySize
	off = alignUp(off, CacheLineSize)

	plan := layoutPlan{topicTableOffset: topicTableOffset}
	for _, cfg := range topics {
		slotCount := nextPowerOfTwo(cfg.SlotCount)
		// slot_size is the full per-slot footprint including SlotHeader,
		// aligned to 8 bytes, per the data model's slot_size definition.
		slotSize := uint32(alignUp(uint64(SlotHeaderSize)+uint64(cfg.PayloadMax), 8))

		ringOffset := off
		off += ringDescriptorSize

		stride := alignUp(uint64(slotSize), CacheLineSize)
		slotsBaseOffset := off
		off += stride * uint64(slotCount)
		off = alignUp(off, CacheLineSize)

		plan.topics = append(plan.topics, plannedTopic{
			cfg:             cfg,
			ringOffset:      ringOffset,
			slotCount:       slotCount,
			slotSize:        slotSize,
			slotsBaseOffset: slotsBaseOffset,
		})
	}
	return off, plan
}
