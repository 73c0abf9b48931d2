package ringbuf

// This file implements the consume half of the state machine; Token.Commit
// (the other half, dispatching on state for both producer and consumer
// commits) lives in token.go alongside Token itself.

// consume peeks at oldestReserve, and if it is Committed, advances
// oldestReserve and hands out a Reading token.
func (b *Buffer) consume() (*Token, uint64, error) {
	or := b.oldestReserve()
	if or == 0 || b.nodeState(or) != nodeStateCommitted {
		return nil, 0, ErrEmpty
	}

	b.setOldestReserve(b.timeNewer(or))
	b.setNodeState(or, nodeStateReading)

	lost := b.lost()
	b.setLost(0)

	return b.newToken(or), lost, nil
}
