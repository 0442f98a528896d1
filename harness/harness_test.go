package harness

import (
	"fmt"
	"os"
	"testing"

	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/ring"
	"github.com/momentics/shmbus/shmerr"
)

func newTestRegion(t *testing.T) (*region.Region, func()) {
	t.Helper()
	name := fmt.Sprintf("/shmbus-harness-test-%s-%d", t.Name(), os.Getpid())
	r, closer, err := region.Build(region.Builder{
		Name: name,
		Topics: []region.TopicConfig{
			{Name: "probe", SlotCount: 8, PayloadMax: 16, Kind: region.RingSWMR},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r, func() {
		closer()
		region.Unlink(name)
	}
}

// Every physical slot's seq is 0 or (seq-1) mod slot_count == index.
func TestInspectorSlotSeqInvariant(t *testing.T) {
	r, done := newTestRegion(t)
	defer done()

	pub, err := ring.OpenPublisher(r, "probe", 1)
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}
	for i := 0; i < 20; i++ {
		if code := pub.Publish([]byte("x")); code != shmerr.Ok {
			t.Fatalf("Publish = %v", code)
		}
	}

	ins, err := Open(r, "probe")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	slotCount := ins.SlotCount()
	for idx := uint32(0); idx < slotCount; idx++ {
		seq := ins.SlotSeq(idx)
		if seq == 0 {
			continue
		}
		if (seq-1)%uint64(slotCount) != uint64(idx) {
			t.Fatalf("slot %d holds seq %d, violates the slot-sequence invariant", idx, seq)
		}
	}
}

func TestTraceRecordsAndEvictsOldest(t *testing.T) {
	tr := NewTrace(3)
	for i := 0; i < 5; i++ {
		tr.Record(Event{Kind: "publish", Seq: uint64(i + 1), Code: shmerr.Ok})
	}
	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	events := tr.Events()
	if events[0].Seq != 3 || events[2].Seq != 5 {
		t.Fatalf("events = %+v, want oldest-evicted tail [3,4,5]", events)
	}
}
