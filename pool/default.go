package pool

import (
	"sync"

	"github.com/momentics/shmbus/api"
	"github.com/momentics/shmbus/internal/concurrency"
)

var (
	defaultOnce sync.Once
	defaultMgr  *BufferPoolManager
)

// DefaultManager returns a process-wide BufferPoolManager so all components
// reuse the same NUMA-aware pools instead of fragmenting allocations.
func DefaultManager() *BufferPoolManager {
	defaultOnce.Do(func() {
		defaultMgr = NewBufferPoolManager()
	})
	return defaultMgr
}

// DefaultPool is a shortcut to fetch the pool for a preferred NUMA node
// from the default manager. numaPreferred of -1 means system default;
// concurrency.NUMANodes reports how many real nodes exist on this host.
func DefaultPool(numaPreferred int) api.BufferPool {
	if numaPreferred >= concurrency.NUMANodes() {
		numaPreferred = -1
	}
	return DefaultManager().GetPool(numaPreferred)
}
