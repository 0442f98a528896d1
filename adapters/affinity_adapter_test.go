package adapters_test

import (
	"testing"

	"github.com/momentics/shmbus/adapters"
	"github.com/momentics/shmbus/api"
)

type descriptorScoper interface {
	ImmutableDescriptor() api.AffinityDescriptor
	Scope() api.AffinityScope
}

func TestAffinityAdapterPinAndDescriptor(t *testing.T) {
	aff := adapters.NewAffinityAdapter()
	extra := aff.(descriptorScoper)

	if err := aff.Pin(0, 0); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	cpu, numa, err := aff.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cpu != 0 || numa != 0 {
		t.Fatalf("Get() = (%d, %d), want (0, 0)", cpu, numa)
	}

	desc := extra.ImmutableDescriptor()
	if !desc.Pinned || desc.CPUID != 0 || desc.NUMAID != 0 {
		t.Fatalf("ImmutableDescriptor() = %+v", desc)
	}
	if extra.Scope() != api.ScopeThread {
		t.Fatalf("Scope() = %v, want ScopeThread", extra.Scope())
	}

	if err := aff.Unpin(); err != nil {
		t.Fatalf("Unpin: %v", err)
	}
	if desc := extra.ImmutableDescriptor(); desc.Pinned {
		t.Fatal("expected Pinned=false after Unpin")
	}
}
