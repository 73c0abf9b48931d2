package ringbuf

import "fmt"

// Token is a caller-visible handle to a reserved or consumed record's
// payload. It recovers the node header from a fixed offset, mirroring the
// "token layout" convention where the node header lives immediately before
// the token — here realized as (buffer, node offset) rather than a raw
// pointer, since the node graph itself is addressed by byte offset into the
// region rather than by native pointer.
type Token struct {
	buf *Buffer
	off uint32
}

func (b *Buffer) newToken(off uint32) *Token {
	return &Token{buf: b, off: off}
}

// Data returns the token's writable/readable payload slice, len(Data()) ==
// the length passed to Reserve (for a Writing/Committed token) or to the
// original Reserve call that produced the record now being consumed.
func (t *Token) Data() []byte {
	return t.buf.payload(t.off)
}

// Len is the payload length in bytes, equivalent to len(t.Data()).
func (t *Token) Len() int {
	return int(t.buf.nodeLen(t.off))
}

// Commit dispatches on the token's node's current state:
//
//	Writing  + no DISCARD → Committed
//	Writing  + DISCARD    → node fully removed
//	Reading  + no DISCARD → node fully removed (consume-confirm)
//	Reading  + DISCARD    → "un-consume"; only legal if no temporally-newer
//	                        node is currently Reading (see commitConsumeDiscard)
func (t *Token) Commit(flags CommitFlag) error {
	b := t.buf
	if b.closed {
		return ErrClosed
	}
	if err := b.checkHeader(); err != nil {
		return err
	}

	discard := flags&CommitDiscard != 0

	switch b.nodeState(t.off) {
	case nodeStateWriting:
		if discard {
			b.removeNode(t.off)
			return nil
		}
		b.setNodeState(t.off, nodeStateCommitted)
		return nil

	case nodeStateReading:
		if !discard {
			b.removeNode(t.off)
			return nil
		}
		return b.commitConsumeDiscard(t.off, flags)

	default:
		return fmt.Errorf("ringbuf: token already committed: %w", ErrClosed)
	}
}

// commitConsumeDiscard implements the Reading+DISCARD branch of the state
// machine: only legal when no temporally-newer node is currently Reading. Checking only the immediate time_newer neighbor suffices — the
// single-step, forward-only advance of oldestReserve on every consume means
// no node can reach state Reading while an older node in the time chain is
// still Writing or Committed, so if the immediate neighbor is not Reading,
// by induction nothing newer is either.
func (b *Buffer) commitConsumeDiscard(off uint32, flags CommitFlag) error {
	newer := b.timeNewer(off)
	if newer != 0 && b.nodeState(newer) == nodeStateReading {
		if flags&CommitConsumeOnError != 0 {
			b.removeNode(off)
			return nil
		}
		return ErrProtocol
	}

	b.setNodeState(off, nodeStateCommitted)

	or := b.oldestReserve()
	if or == 0 || b.nodeSeq(off) < b.nodeSeq(or) {
		b.setOldestReserve(off)
	}
	return nil
}
