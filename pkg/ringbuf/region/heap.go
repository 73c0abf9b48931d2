// Package region provides memory-region providers for ringbuf.New: places
// to get the []byte a Buffer is built on top of. Buffer itself is agnostic
// to where its bytes live (provisioning the backing bytes is deliberately
// left to the caller) but a real module ships something here.
package region

// Heap returns a zeroed, Go-heap-backed region of the given size. This is
// the common case: the returned slice's lifetime pins the memory, and the
// GC scans and reclaims it like any other byte slice.
func Heap(size int) []byte {
	return make([]byte, size)
}
