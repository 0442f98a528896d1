package health

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
	name := fmt.Sprintf("/shmbus-health-test-%s-%d", t.Name(), os.Getpid())
	r, closer, err := region.Build(region.Builder{
		Name: name,
		Topics: []region.TopicConfig{
			{Name: "metrics", SlotCount: 8, PayloadMax: 32, Kind: region.RingSWMR},
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

func TestProbeReflectsPublishedCount(t *testing.T) {
	r, done := newTestRegion(t)
	defer done()

	pub, err := ring.OpenPublisher(r, "metrics", 1)
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}
	probe, err := Open(r, "metrics")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if got := probe.TotalPublished(); got != 0 {
		t.Fatalf("TotalPublished = %d, want 0", got)
	}

	for i := 0; i < 5; i++ {
		if code := pub.Publish([]byte("msg")); code != shmerr.Ok {
			t.Fatalf("Publish = %v", code)
		}
	}

	if got := probe.TotalPublished(); got != 5 {
		t.Fatalf("TotalPublished = %d, want 5", got)
	}
	if got := probe.LastPublishTimestampNs(); got == 0 {
		t.Fatal("LastPublishTimestampNs = 0 after publishes")
	}
}

func TestProbeLagAndBreach(t *testing.T) {
	r, done := newTestRegion(t)
	defer done()

	pub, err := ring.OpenPublisher(r, "metrics", 1)
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}
	probe, err := Open(r, "metrics")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for i := 0; i < 10; i++ {
		pub.Publish([]byte("x"))
	}

	if lag := probe.LagSlots(3); lag != 7 {
		t.Fatalf("LagSlots(3) = %d, want 7", lag)
	}
	if probe.LagSlots(10) != 0 {
		t.Fatal("LagSlots should floor at 0 when caller is current")
	}
	if !probe.LagBreach(3, 5) {
		t.Fatal("LagBreach(3, 5) should be true for lag 7")
	}
	if probe.LagBreach(8, 5) {
		t.Fatal("LagBreach(8, 5) should be false for lag 2")
	}
}

func TestSnapshotJSONLineHasStableFieldNames(t *testing.T) {
	r, done := newTestRegion(t)
	defer done()

	probe, err := Open(r, "metrics")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	snap := probe.Snapshot(0, 1000, 500, 10)
	line, err := snap.JSONLine()
	if err != nil {
		t.Fatalf("JSONLine: %v", err)
	}
	for _, field := range []string{`"topic"`, `"published"`, `"last_pub_ns"`, `"lag"`} {
		if !containsSubstring(line, field) {
			t.Fatalf("JSONLine %q missing field %s", line, field)
		}
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
