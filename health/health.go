// Package health derives read-only telemetry from ring state, per the
// core's policy that nothing is stored mutably outside the region
// itself: every metric here is recomputed from the same atomics the
// publish and consume paths already maintain.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package health

import (
	"encoding/json"

	"github.com/momentics/shmbus/region"
)

// Snapshot is a point-in-time read of one topic's health, safe to call
// from any attached process.
type Snapshot struct {
	Topic           string
	TotalPublished  uint64
	LastPublishNs   uint64
	LagSlots        uint64
	Silent          bool
	LagBreach       bool
}

// Probe reads health for one topic out of an attached region. lastSeq is
// the caller's own subscriber cursor (0 if the caller has none); nowNs
// and thresholds are supplied by the caller so this package stays free
// of any wall-clock dependency.
type Probe struct {
	r     *region.Region
	topic region.TopicHandle
	ring  region.RingDescriptor
}

// Open attaches a health probe to an existing topic.
func Open(r *region.Region, topic string) (*Probe, error) {
	th, err := r.Lookup(topic)
	if err != nil {
		return nil, err
	}
	return &Probe{r: r, topic: th, ring: th.Ring()}, nil
}

// TotalPublished is write_head, acquire-loaded.
func (p *Probe) TotalPublished() uint64 {
	return p.ring.WriteHead().Load()
}

// LastPublishTimestampNs returns the timestamp_ns of the most recently
// reserved slot, but only if that slot's seq has caught up to write_head
// — otherwise the slot is still mid-commit and the value is unknown.
func (p *Probe) LastPublishTimestampNs() uint64 {
	w := p.ring.WriteHead().Load()
	if w == 0 {
		return 0
	}
	mask := p.ring.SlotCount() - 1
	idx := uint32((w - 1) & uint64(mask))
	slot := p.ring.SlotAt(idx)
	if slot.Seq().Load() != w {
		return 0
	}
	return slot.TimestampNs()
}

// LagSlots returns write_head - lastSeq, floored at 0.
func (p *Probe) LagSlots(lastSeq uint64) uint64 {
	w := p.ring.WriteHead().Load()
	if lastSeq >= w {
		return 0
	}
	return w - lastSeq
}

// Silent reports whether nowNs - LastPublishTimestampNs() exceeds threshold.
// A zero last-publish timestamp (still committing, or never published)
// counts as silent once nowNs itself exceeds the threshold.
func (p *Probe) Silent(nowNs uint64, thresholdNs uint64) bool {
	last := p.LastPublishTimestampNs()
	if last == 0 {
		return nowNs > thresholdNs
	}
	return nowNs-last > thresholdNs
}

// LagBreach reports whether the given subscriber's lag exceeds threshold.
func (p *Probe) LagBreach(lastSeq uint64, threshold uint64) bool {
	return p.LagSlots(lastSeq) > threshold
}

// Snapshot gathers every metric into one value, suitable for JSON export.
func (p *Probe) Snapshot(lastSeq, nowNs, silentThresholdNs, lagThreshold uint64) Snapshot {
	lag := p.LagSlots(lastSeq)
	return Snapshot{
		Topic:          p.topic.Name(),
		TotalPublished: p.TotalPublished(),
		LastPublishNs:  p.LastPublishTimestampNs(),
		LagSlots:       lag,
		Silent:         p.Silent(nowNs, silentThresholdNs),
		LagBreach:      lag > lagThreshold,
	}
}

// healthJSON mirrors the optional export's four stable field names:
// topic, published, last_pub_ns, lag.
type healthJSON struct {
	Topic     string `json:"topic"`
	Published uint64 `json:"published"`
	LastPubNs uint64 `json:"last_pub_ns"`
	Lag       uint64 `json:"lag"`
}

// JSONLine renders the snapshot as a single compact UTF-8 JSON line.
func (s Snapshot) JSONLine() (string, error) {
	b, err := json.Marshal(healthJSON{
		Topic:     s.Topic,
		Published: s.TotalPublished,
		LastPubNs: s.LastPublishNs,
		Lag:       s.LagSlots,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
