// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// In-process concurrency primitives: CPU/NUMA pinning, a NUMA-aware work
// executor, and a lock-free SPSC ring. These are ambient helpers reached
// through the adapters package (executor and affinity) and the pool package
// (ring buffer, NUMA node count) — the shared-memory ring/region/health
// packages are self-contained and do not import this package.
//
// All implementations are cross-platform compatible (Linux/Windows).
package concurrency
