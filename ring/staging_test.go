package ring

import (
	"testing"

	"github.com/momentics/shmbus/pool"
	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/shmerr"
)

func TestPublishConsumeStagedRoundTripThroughBufferPool(t *testing.T) {
	r, done := newTestRegion(t, []region.TopicConfig{
		{Name: "orders", SlotCount: 16, PayloadMax: 32, Kind: region.RingSWMR},
	})
	defer done()

	pub, err := OpenPublisher(r, "orders", 7)
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}
	sub, err := OpenSubscriber(r, "orders")
	if err != nil {
		t.Fatalf("OpenSubscriber: %v", err)
	}

	bp := pool.DefaultPool(-1)

	want := []byte("staged payload")
	code := pub.PublishStaged(bp, -1, func(dst []byte) int {
		return copy(dst, want)
	})
	if code != shmerr.Ok {
		t.Fatalf("PublishStaged: %v", code)
	}

	var gotLen int
	var gotPID uint16
	var got []byte
	code = sub.ConsumeStaged(bp, -1, func(payload []byte, publisherID uint16) {
		gotLen = len(payload)
		gotPID = publisherID
		got = append([]byte(nil), payload...)
	})
	if code != shmerr.Ok {
		t.Fatalf("ConsumeStaged: %v", code)
	}
	if gotPID != 7 {
		t.Fatalf("publisherID = %d, want 7", gotPID)
	}
	if gotLen != len(want) || string(got) != string(want) {
		t.Fatalf("payload = %q, want %q", got, want)
	}

	stats := bp.Stats()
	_ = stats // exercised through Get/Put; exact counters are pool-implementation defined.
}

func TestPublishStagedRejectsOversizedFill(t *testing.T) {
	r, done := newTestRegion(t, []region.TopicConfig{
		{Name: "orders", SlotCount: 16, PayloadMax: 8, Kind: region.RingSWMR},
	})
	defer done()

	pub, err := OpenPublisher(r, "orders", 1)
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}

	bp := pool.DefaultPool(-1)
	code := pub.PublishStaged(bp, -1, func(dst []byte) int {
		return len(dst) + 1
	})
	if code != shmerr.PayloadTooLarge {
		t.Fatalf("code = %v, want PayloadTooLarge", code)
	}
}
