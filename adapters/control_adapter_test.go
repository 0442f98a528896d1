package adapters_test

import (
	"testing"
	"time"

	"github.com/momentics/shmbus/adapters"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	cfg := ctrl.GetConfig()
	if len(cfg) != 0 {
		t.Error("Expected empty config on init")
	}
	if err := ctrl.SetConfig(map[string]any{"k": 1}); err != nil {
		t.Fatal(err)
	}
	cfg = ctrl.GetConfig()
	if cfg["k"] != 1 {
		t.Error("SetConfig did not apply")
	}

	ctrl.RegisterDebugProbe("probe.k", func() any { return cfg["k"] })
	stats := ctrl.Stats()
	if stats["debug.probe.k"] != 1 {
		t.Error("RegisterDebugProbe value missing from Stats")
	}

	done := make(chan struct{})
	ctrl.OnReload(func() { close(done) })
	ctrl.SetConfig(map[string]any{"x": 2})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Reload hook not called")
	}
}
