// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "github.com/momentics/shmbus/api"

var _ api.BytePool = (*BytePool)(nil)

// BytePool is compatible with NUMA-pool if enabled.
type BytePool struct {
	npool *NUMAPool // If set, use NUMA-aware pool, fallback to sync.Pool.
	size  int
}

func NewBytePool(size int, node int, useNUMA bool) *BytePool {
	return &BytePool{
		npool: NewNUMAPool(node, size, useNUMA),
		size:  size,
	}
}

// GetBuffer returns a buffer from the pool.
func (b *BytePool) GetBuffer() []byte {
	if b.npool != nil && b.npool.enable {
		return b.npool.Get()
	}
	// fallback: make regular slice
	return make([]byte, b.size)
}

// PutBuffer returns a buffer to the pool.
func (b *BytePool) PutBuffer(buf []byte) {
	if b.npool != nil && b.npool.enable {
		b.npool.Put(buf)
		return
	}
	// fallback: GC handles memory
}

// Acquire satisfies api.BytePool. It returns a pooled buffer resliced to n
// bytes; when n exceeds the pool's fixed size it returns a freshly
// allocated n-byte slice instead of a pooled one.
func (b *BytePool) Acquire(n int) []byte {
	buf := b.GetBuffer()
	if len(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// Release satisfies api.BytePool.
func (b *BytePool) Release(buf []byte) {
	b.PutBuffer(buf)
}
