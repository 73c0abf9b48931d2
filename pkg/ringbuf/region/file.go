package region

import (
	"fmt"
	"syscall"
)

// FileRegion is a fixed-size, memory-mapped file backing a ringbuf.Buffer.
// It relocates the buffer's bytes outside the Go heap — useful for very
// large buffers the GC shouldn't scan, or for sharing memory across
// processes that coordinate externally — but grants no durability
// guarantee: ringbuf's core makes no persistence claim of its own, and
// FileRegion does not change that. Grounded in
// pkg/slotcache/open.go's mmapAndCreateCache (syscall.Ftruncate +
// syscall.Mmap with PROT_READ|PROT_WRITE / MAP_SHARED).
type FileRegion struct {
	fd     int
	data   []byte
	closed bool
}

// OpenFile creates (or reuses, if it already exists) a file at path,
// ftruncates it to size bytes, and mmaps it PROT_READ|PROT_WRITE/
// MAP_SHARED. The returned []byte is suitable for passing to ringbuf.New;
// call Close when done to unmap and close the descriptor.
func OpenFile(path string, size int) (*FileRegion, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region: size must be positive, got %d", size)
	}

	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_CREAT, 0o600)
	if err != nil {
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}

	if err := syscall.Ftruncate(fd, int64(size)); err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("region: ftruncate %s to %d: %w", path, size, err)
	}

	data, err := syscall.Mmap(fd, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("region: mmap %s: %w", path, err)
	}

	return &FileRegion{fd: fd, data: data}, nil
}

// Bytes returns the mapped region, for passing to ringbuf.New.
func (f *FileRegion) Bytes() []byte {
	return f.data
}

// Close unmaps the region and closes the file descriptor. Idempotent.
func (f *FileRegion) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	munmapErr := syscall.Munmap(f.data)
	closeErr := syscall.Close(f.fd)
	if munmapErr != nil {
		return fmt.Errorf("region: munmap: %w", munmapErr)
	}
	if closeErr != nil {
		return fmt.Errorf("region: close: %w", closeErr)
	}
	return nil
}
