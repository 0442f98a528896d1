//go:build !windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Attach-path mmap using github.com/edsrzf/mmap-go, grounded on the
// unsafe-pointer-over-mmap.MMap idiom in pfeiferj-gomsgq's Header.Init.
// The builder's create path (build.go, mmap_unix.go) uses raw platform
// syscalls because it must control creation, exclusivity, and sizing;
// the attach path here only needs a read-write view of an
// already-sized object, which mmap-go expresses directly.

package region

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/momentics/shmbus/shmerr"
)

// openRegion opens the /dev/shm-backed file by path and maps its current
// full size.
func openRegion(name string) (*Region, func() error, error) {
	path := shmPath(name)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}
	closer := func() error { return m.Unmap() }
	return FromBytes([]byte(m)), closer, nil
}
