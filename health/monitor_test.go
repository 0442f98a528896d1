package health

import (
	"fmt"
	"os"
	"testing"

	"github.com/momentics/shmbus/adapters"
	"github.com/momentics/shmbus/region"
	"github.com/momentics/shmbus/ring"
	"github.com/momentics/shmbus/shmerr"
)

func TestMonitorPollAllReportsThroughControl(t *testing.T) {
	name := fmt.Sprintf("/shmbus-monitor-test-%d", os.Getpid())
	r, closer, err := region.Build(region.Builder{
		Name: name,
		Topics: []region.TopicConfig{
			{Name: "orders", SlotCount: 16, PayloadMax: 8, Kind: region.RingSWMR},
			{Name: "ticks", SlotCount: 16, PayloadMax: 8, Kind: region.RingSWMR},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() {
		closer()
		region.Unlink(name)
	}()

	pub, err := ring.OpenPublisher(r, "orders", 1)
	if err != nil {
		t.Fatalf("OpenPublisher: %v", err)
	}
	for i := 0; i < 5; i++ {
		if code := pub.Publish([]byte("x")); code != shmerr.Ok {
			t.Fatalf("Publish: %v", code)
		}
	}

	ordersProbe, err := Open(r, "orders")
	if err != nil {
		t.Fatalf("Open(orders): %v", err)
	}
	ticksProbe, err := Open(r, "ticks")
	if err != nil {
		t.Fatalf("Open(ticks): %v", err)
	}

	exec := adapters.NewExecutorAdapter(2, -1)
	defer exec.(interface{ Close() }).Close()
	ctrl := adapters.NewControlAdapter()

	mon, err := NewMonitor(exec, ctrl, nil)
	if err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}
	mon.Watch("orders", ordersProbe)
	mon.Watch("ticks", ticksProbe)

	if err := mon.PollAll(1_000_000, 500_000, 10, nil); err != nil {
		t.Fatalf("PollAll: %v", err)
	}

	stats := ctrl.Stats()
	ordersSnap, ok := stats["orders"].(Snapshot)
	if !ok {
		t.Fatalf("stats[orders] = %#v, want Snapshot", stats["orders"])
	}
	if ordersSnap.TotalPublished != 5 {
		t.Fatalf("TotalPublished = %d, want 5", ordersSnap.TotalPublished)
	}

	ticksSnap, ok := stats["ticks"].(Snapshot)
	if !ok {
		t.Fatalf("stats[ticks] = %#v, want Snapshot", stats["ticks"])
	}
	if ticksSnap.TotalPublished != 0 {
		t.Fatalf("TotalPublished = %d, want 0", ticksSnap.TotalPublished)
	}

	debugSnap, ok := ctrl.Stats()["debug.health.orders"].(Snapshot)
	if !ok || debugSnap.TotalPublished != 5 {
		t.Fatalf("Stats()[debug.health.orders] = %#v, want Snapshot with TotalPublished=5", ctrl.Stats()["debug.health.orders"])
	}
}

func TestMonitorPinsAffinityWhenProvided(t *testing.T) {
	exec := adapters.NewExecutorAdapter(1, -1)
	defer exec.(interface{ Close() }).Close()
	ctrl := adapters.NewControlAdapter()
	aff := adapters.NewAffinityAdapter()

	if _, err := NewMonitor(exec, ctrl, aff); err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}
	cpu, numa, err := aff.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cpu < 0 || numa < 0 {
		t.Fatalf("Get() = (%d, %d), want pinned (>=0, >=0)", cpu, numa)
	}
}
