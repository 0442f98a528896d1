//go:build windows

package region

// openRegion falls back to the raw CreateFileMapping/MapViewOfFile attach
// path on Windows: mmap-go's Windows support maps *os.File handles, but
// Build's Windows section is paging-file-backed (no file), so there is no
// os.File for mmap-go to open. openAndMap (mmap_windows.go) re-implements
// the same "map then re-map at the header's declared size" attach logic
// mmap-go would otherwise provide.
func openRegion(name string) (*Region, func() error, error) {
	mem, closer, err := openAndMap(name)
	if err != nil {
		return nil, nil, err
	}
	return FromBytes(mem), closer, nil
}
