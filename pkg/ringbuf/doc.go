// Package ringbuf implements a bounded, in-place ring buffer allocator: a
// single-producer/single-consumer staging area for variable-length records,
// backed by a single caller-supplied memory region.
//
// All bookkeeping (header, node links, free space) lives inside the region
// the caller hands to [New]; no bookkeeping is allocated from the Go heap
// after that call, though each [Buffer.Reserve] and [Buffer.Consume]
// allocates the small [Token] handle it returns. Producers [Buffer.Reserve] a span of bytes, write into
// the returned [Token]'s [Token.Data], and [Token.Commit] it. Consumers
// [Buffer.Consume] the oldest committed record and commit it in turn.
//
// # Basic usage
//
//	buf, err := ringbuf.New(region.Heap(4096), ringbuf.Options{})
//	if err != nil {
//	    // handle ErrTooSmall/ErrInvalidInput
//	}
//
//	tok, err := buf.Reserve(64, 0)
//	copy(tok.Data(), payload)
//	tok.Commit(0)
//
//	read, _, err := buf.Consume()
//	_ = read.Data()
//	read.Commit(0)
//
// # Concurrency
//
// A [Buffer] is not safe for concurrent use; it is a single-threaded data
// structure by design (see [SyncBuffer] for a mutex-wrapped variant).
//
// # Error handling
//
// Errors are sentinel values classified with [errors.Is]. [ErrCorrupt] and
// [ErrTooSmall] mean the region itself is unusable and should be
// re-provisioned; [ErrFull], [ErrEmpty], and [ErrProtocol] are expected,
// retryable outcomes of normal operation; [ErrInvalidInput] and [ErrClosed]
// indicate caller misuse.
package ringbuf
