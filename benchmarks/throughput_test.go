// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Throughput benchmarks for the publish and consume paths.

package benchmarks

import (
	"fmt"
	"os"
	"testing"

	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/ring"
	"github.com/momentics/shmbus/shmerr"
)

func newBenchRegion(b *testing.B, kind region.RingKind) (*region.Region, func()) {
	b.Helper()
	name := fmt.Sprintf("/shmbus-bench-%s-%d", b.Name(), os.Getpid())
	r, closer, err := region.Build(region.Builder{
		Name: name,
		Topics: []region.TopicConfig{
			{Name: "bench", SlotCount: 4096, PayloadMax: 64, Kind: kind},
		},
	})
	if err != nil {
		b.Fatalf("Build: %v", err)
	}
	return r, func() {
		closer()
		region.Unlink(name)
	}
}

// BenchmarkSWMRPublish measures wait-free single-writer append throughput.
func BenchmarkSWMRPublish(b *testing.B) {
	r, done := newBenchRegion(b, region.RingSWMR)
	defer done()

	pub, err := ring.OpenPublisher(r, "bench", 1)
	if err != nil {
		b.Fatalf("OpenPublisher: %v", err)
	}
	payload := make([]byte, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if code := pub.Publish(payload); code != shmerr.Ok {
			b.Fatalf("Publish = %v", code)
		}
	}
}

// BenchmarkMWMRPublishParallel measures generation-wait overhead under
// concurrent publishers sharing one ring.
func BenchmarkMWMRPublishParallel(b *testing.B) {
	r, done := newBenchRegion(b, region.RingMWMR)
	defer done()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		pub, err := ring.OpenPublisher(r, "bench", 1)
		if err != nil {
			b.Fatalf("OpenPublisher: %v", err)
		}
		payload := make([]byte, 64)
		for pb.Next() {
			pub.Publish(payload)
		}
	})
}

// BenchmarkConsume measures the consume path's steady-state cost when the
// ring always has a message ready (publisher keeps pace with the
// benchmark loop one publish ahead of the reader).
func BenchmarkConsume(b *testing.B) {
	r, done := newBenchRegion(b, region.RingSWMR)
	defer done()

	pub, err := ring.OpenPublisher(r, "bench", 1)
	if err != nil {
		b.Fatalf("OpenPublisher: %v", err)
	}
	sub, err := ring.OpenSubscriber(r, "bench")
	if err != nil {
		b.Fatalf("OpenSubscriber: %v", err)
	}
	payload := make([]byte, 64)
	buf := make([]byte, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pub.Publish(payload)
		if _, _, code := sub.Consume(buf); code != shmerr.Ok {
			b.Fatalf("Consume = %v", code)
		}
	}
}
