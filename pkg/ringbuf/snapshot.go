package ringbuf

import (
	"bytes"

	"github.com/natefinch/atomic"
)

// DumpTo atomically writes the buffer's raw region bytes to path, for
// offline inspection (e.g. attaching a corrupted buffer's bytes to a bug
// report). It is not one of the core reserve/consume operations and never
// participates in their semantics; it just reads the region under whatever
// external lock the caller already holds for every other call.
func (b *Buffer) DumpTo(path string) error {
	if b.closed {
		return ErrClosed
	}
	return atomic.WriteFile(path, bytes.NewReader(b.region))
}
