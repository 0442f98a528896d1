// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monitor runs a set of watched Probes through an api.Executor, reporting
// each poll's Snapshot through an api.Control sink instead of requiring
// callers to poll every topic by hand on their own goroutine.

package health

import (
	"fmt"
	"sync"

	"github.com/momentics/shmbus/api"
)

// Monitor polls a set of topic Probes on each PollAll call and reports
// their Snapshots through a Control sink: one metric per topic, plus one
// debug probe per topic that returns the most recently stored Snapshot.
type Monitor struct {
	exec api.Executor
	ctrl api.Control

	mu        sync.Mutex
	probes    map[string]*Probe
	snapshots map[string]Snapshot
}

// NewMonitor creates a monitor that dispatches polls through exec and
// reports results through ctrl. If aff is non-nil, the calling goroutine
// is pinned with Pin(-1, -1), which lets the adapter choose the CPU and
// NUMA node; the polls themselves run on exec's workers, not on the
// pinned goroutine.
func NewMonitor(exec api.Executor, ctrl api.Control, aff api.Affinity) (*Monitor, error) {
	if aff != nil {
		if err := aff.Pin(-1, -1); err != nil {
			return nil, fmt.Errorf("pin monitor thread: %w", err)
		}
	}
	return &Monitor{
		exec:      exec,
		ctrl:      ctrl,
		probes:    make(map[string]*Probe),
		snapshots: make(map[string]Snapshot),
	}, nil
}

// Watch registers topic's probe and installs a debug probe that returns
// its most recently stored Snapshot (the zero Snapshot until the first
// PollAll completes).
func (m *Monitor) Watch(topic string, p *Probe) {
	m.mu.Lock()
	m.probes[topic] = p
	m.mu.Unlock()
	m.ctrl.RegisterDebugProbe("health."+topic, func() any {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.snapshots[topic]
	})
}

// PollAll submits one task per watched topic to the executor, each
// computing a Snapshot and storing it as a Control metric keyed by
// topic name. lastSeqs supplies each topic's subscriber cursor; a
// missing entry is treated as 0 ("no subscriber yet").
func (m *Monitor) PollAll(nowNs, silentThresholdNs, lagThreshold uint64, lastSeqs map[string]uint64) error {
	m.mu.Lock()
	probes := make(map[string]*Probe, len(m.probes))
	for k, v := range m.probes {
		probes[k] = v
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error
	for topic, p := range probes {
		topic, p := topic, p
		wg.Add(1)
		err := m.exec.Submit(func() {
			defer wg.Done()
			snap := p.Snapshot(lastSeqs[topic], nowNs, silentThresholdNs, lagThreshold)
			m.mu.Lock()
			m.snapshots[topic] = snap
			m.mu.Unlock()
			m.ctrl.SetMetric(topic, snap)
		})
		if err != nil {
			wg.Done()
			errMu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			errMu.Unlock()
		}
	}
	wg.Wait()
	return firstErr
}
