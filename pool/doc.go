// Package pool
// Author: momentics <momentics@gmail.com>
//
// NUMA-aware, lock-free, zero-copy buffer pooling for staging payloads.
// The ring/region packages write publish payloads directly into
// shared-memory slots and own no pool; ring.Publisher.PublishStaged and
// ring.Subscriber.ConsumeStaged take an api.BufferPool such as this
// package's, so a loop can reuse a buffer instead of allocating one per
// call. All primitives are cross-platform (Linux/Windows).
package pool
