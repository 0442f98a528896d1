// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Adaptive spin/backoff for the MWMR generation wait, adapted from the
// sleep-escalation idiom in internal/concurrency.worker.run: a few tight
// spins, then runtime.Gosched, then a short sleep, to avoid burning a
// full core while waiting for another publisher to finish its slot.

package ring

import (
	"runtime"
	"time"
)

const (
	spinIterations = 64
	yieldIterations = 256
)

// backoff tracks how many times wait has been called so the caller can
// escalate from pure spinning to yielding to sleeping.
type backoff struct {
	n int
}

func (b *backoff) reset() { b.n = 0 }

// wait performs one escalation step and returns. Callers loop: spin a
// bounded number of times, then treat exhaustion as Timeout.
func (b *backoff) wait() {
	switch {
	case b.n < spinIterations:
		// busy spin
	case b.n < yieldIterations:
		runtime.Gosched()
	default:
		time.Sleep(time.Microsecond)
	}
	b.n++
}
