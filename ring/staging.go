// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Staged publish/consume wraps the plain Publish/Consume calls with an
// api.BufferPool-backed scratch buffer, so a hot loop that already keeps a
// NUMA-local pool around (for sizing, batching, or inter-op with other
// zero-copy consumers) can stage payloads through it instead of handing
// Publish/Consume a caller-owned slice every time.

package ring

import (
	"github.com/momentics/shmbus/api"
	"github.com/momentics/shmbus/shmerr"
)

// PublishStaged acquires a buffer from pool sized for this topic's payload
// capacity, lets fill write the outgoing message into it, publishes the
// written bytes, and releases the buffer back to pool before returning.
// fill receives the buffer's backing slice and returns how many bytes it
// wrote; fill must not retain the slice past its call.
func (p *Publisher) PublishStaged(pool api.BufferPool, numaPreferred int, fill func([]byte) int) shmerr.Code {
	buf := pool.Get(int(p.geometry.payloadCap()), numaPreferred)
	defer buf.Release()

	n := fill(buf.Bytes())
	if n < 0 || uint32(n) > p.geometry.payloadCap() {
		return shmerr.PayloadTooLarge
	}
	return p.Publish(buf.Bytes()[:n])
}

// ConsumeStaged acquires a buffer from pool sized for this topic's payload
// capacity, consumes the next message into it, and passes the received
// buffer to handle before releasing it back to pool. handle sees exactly
// the n bytes Consume wrote, never the buffer's full capacity.
func (s *Subscriber) ConsumeStaged(pool api.BufferPool, numaPreferred int, handle func(payload []byte, publisherID uint16)) shmerr.Code {
	buf := pool.Get(int(s.geometry.payloadCap()), numaPreferred)
	defer buf.Release()

	n, pid, code := s.Consume(buf.Bytes())
	if code != shmerr.Ok {
		return code
	}
	handle(buf.Bytes()[:n], pid)
	return shmerr.Ok
}
