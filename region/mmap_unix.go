//go:build !windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// POSIX backing-object management, grounded on AlephTX-aleph-tx's
// /dev/shm + syscall.Mmap seqlock ring, upgraded to golang.org/x/sys/unix
// per the region package's domain-stack commitment.

package region

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/momentics/shmbus/shmerr"
)

func shmPath(name string) string {
	if len(name) > 0 && name[0] == '/' {
		return "/dev/shm" + name
	}
	return "/dev/shm/" + name
}

// createAndMap creates a fresh, exclusively-owned backing file under
// /dev/shm, sizes it to size bytes, maps it MAP_SHARED, and returns the
// mapping plus a closer that unmaps and unlinks it. An existing object of
// the same name is removed first so builders are idempotent across a
// crashed prior run.
func createAndMap(name string, size uint64) ([]byte, func() error, error) {
	path := shmPath(name)
	_ = os.Remove(path)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrCreateFailed, err)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		os.Remove(path)
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrResizeFailed, err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		os.Remove(path)
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}

	closer := func() error {
		err := unix.Munmap(mem)
		os.Remove(path)
		return err
	}
	return mem, closer, nil
}

// Unlink removes the named backing object without mapping it, used when a
// builder wants to discard a stale region left by a crashed process.
func Unlink(name string) error {
	return os.Remove(shmPath(name))
}
