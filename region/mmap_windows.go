//go:build windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows backing-object management using CreateFileMapping and
// MapViewOfFile over a named, paging-file-backed section, per the
// region package's domain-stack commitment to golang.org/x/sys/windows.

package region

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/shmbus/shmerr"
)

func sectionName(name string) *uint16 {
	clean := name
	if len(clean) > 0 && clean[0] == '/' {
		clean = clean[1:]
	}
	p, _ := windows.UTF16PtrFromString(`shmbus-` + clean)
	return p
}

// createAndMap creates a new named file-mapping object backed by the
// system paging file, sized to size bytes, and maps a full view of it
// into this process. Closer unmaps the view and closes the handle.
func createAndMap(name string, size uint64) ([]byte, func() error, error) {
	namePtr := sectionName(name)
	high := uint32(size >> 32)
	low := uint32(size & 0xffffffff)

	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, high, low, namePtr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrCreateFailed, err)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	closer := func() error {
		err1 := windows.UnmapViewOfFile(addr)
		err2 := windows.CloseHandle(h)
		if err1 != nil {
			return err1
		}
		return err2
	}
	return mem, closer, nil
}

// openAndMap attaches to an existing named file-mapping object created by
// another process via Build. Windows sections carry no self-describing
// size, so it first maps only the header, reads RegionHeader.RegionSize,
// and re-maps at that full extent; a zero RegionSize is rejected with
// ErrBadMagic. Magic and version are checked afterwards by Open.
func openAndMap(name string) ([]byte, func() error, error) {
	namePtr := sectionName(name)

	h, err := windows.OpenFileMapping(windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, false, namePtr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}

	headerAddr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(regionHeaderSize))
	if err != nil {
		windows.CloseHandle(h)
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}
	headerBytes := unsafe.Slice((*byte)(unsafe.Pointer(headerAddr)), regionHeaderSize)
	full := FromBytes(headerBytes).RegionSize()
	windows.UnmapViewOfFile(headerAddr)

	if full == 0 {
		windows.CloseHandle(h)
		return nil, nil, fmt.Errorf("%w: region header not yet initialized", shmerr.ErrBadMagic)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(full))
	if err != nil {
		windows.CloseHandle(h)
		return nil, nil, fmt.Errorf("%w: %v", shmerr.ErrMapFailed, err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), full)
	closer := func() error {
		err1 := windows.UnmapViewOfFile(addr)
		err2 := windows.CloseHandle(h)
		if err1 != nil {
			return err1
		}
		return err2
	}
	return mem, closer, nil
}

// Unlink is a no-op on Windows: named file mappings are reference-counted
// by open handles and disappear automatically once every mapping process
// closes its handle, so there is no persistent object to remove.
func Unlink(name string) error { return nil }
