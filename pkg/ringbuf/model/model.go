// Package model implements a deliberately naive, obviously-correct oracle
// for ringbuf's observable behavior, used only by tests.
//
// It does not mirror ringbuf's byte-packed region, offsets, or dual-chain
// node graph — those are exactly what the tests comparing this package
// against the real [ringbuf.Buffer] are trying to validate. Instead it
// tracks the same state a caller can observe (which records are live,
// their order, their state, the lost counter) using a plain slice and
// ordinary Go values, the same design goal
// pkg/slotcache/model and pkg/slotcache/internal/testutil/model state
// explicitly in their own doc comments: "favors clarity over performance."
//
// Scope boundary: this model has no notion of addresses. Reserve accepts a
// record whenever the total unused capacity covers it; it does not model
// that the real buffer only places a record in the free gap after HEAD
// (split in two at the end of the cache), nor the holes left where interior
// records were removed, so it can accept a reservation the real buffer
// rejects. Its overwrite walk starts at the oldest Writing/Committed record
// and absorbs the following Committed records in insertion order, stopping
// at the first Reading or Writing one; it does not stop at the wrap
// boundary or at a position-order gap the way the real walk does.
package model

import "github.com/calvinalkan/ringbuf/pkg/ringbuf"

// Record mirrors one node's externally observable state.
type Record struct {
	ID      uint64
	State   ringbuf.State
	Payload []byte
}

// Model is the naive oracle. Zero value is not usable; use New.
type Model struct {
	capacity  int
	alignment uint32

	// records is ordered oldest (index 0, TAIL) to newest (HEAD).
	records []*Record
	used    int
	lost    uint64
	nextID  uint64
}

// New creates a model for a buffer with the given cache capacity (bytes
// available after the header, i.e. ringbuf.Buffer.Capacity()'s value) and
// options.
func New(capacity int, opts ringbuf.Options) *Model {
	align := opts.Alignment
	if align == 0 {
		align = 8
	}
	return &Model{capacity: capacity, alignment: align}
}

func (m *Model) nodeCost(payloadLen int) int {
	return ringbuf.NodeCost(payloadLen, ringbuf.Options{Alignment: m.alignment})
}

// Reserve mirrors Buffer.Reserve. overwrite mirrors ReserveOverwrite.
func (m *Model) Reserve(length int, overwrite bool) (*Record, bool) {
	nodeSize := m.nodeCost(length)
	if nodeSize > m.capacity {
		return nil, false
	}

	if m.used+nodeSize <= m.capacity {
		return m.install(length), true
	}

	if !overwrite {
		return nil, false
	}
	return m.reserveOverwrite(length, nodeSize)
}

func (m *Model) install(length int) *Record {
	r := &Record{ID: m.nextID, State: ringbuf.StateWriting, Payload: make([]byte, length)}
	m.nextID++
	m.records = append(m.records, r)
	m.used += m.nodeCost(length)
	return r
}

func (m *Model) reserveOverwrite(length int, nodeSize int) (*Record, bool) {
	start := m.oldestReserveIndex()
	if start < 0 || m.records[start].State != ringbuf.StateCommitted {
		return nil, false
	}

	if len(m.records) == 1 {
		m.records = nil
		m.used = 0
		m.lost++
		return m.install(length), true
	}

	sum := 0
	end := start
	for end < len(m.records) && sum < nodeSize {
		if m.records[end].State != ringbuf.StateCommitted {
			break
		}
		sum += m.nodeCost(len(m.records[end].Payload))
		end++
	}
	if sum < nodeSize {
		return nil, false
	}

	m.records = append(m.records[:start], m.records[end:]...)
	m.used -= sum
	m.lost += uint64(end - start)
	return m.install(length), true
}

// Consume mirrors Buffer.Consume: returns the oldest Committed record (if
// any), transitions it to Reading, and snapshots+resets lost.
func (m *Model) Consume() (*Record, uint64, bool) {
	idx := m.oldestReserveIndex()
	if idx < 0 || m.records[idx].State != ringbuf.StateCommitted {
		return nil, 0, false
	}
	m.records[idx].State = ringbuf.StateReading
	lost := m.lost
	m.lost = 0
	return m.records[idx], lost, true
}

// oldestReserveIndex returns the index of the oldest record not yet past
// Writing/Committed, i.e. the model's analog of oldestReserve, or -1.
// Unlike the real buffer this is a linear scan; the model trades O(1)
// bookkeeping for obvious correctness.
func (m *Model) oldestReserveIndex() int {
	for i, r := range m.records {
		if r.State == ringbuf.StateWriting || r.State == ringbuf.StateCommitted {
			return i
		}
	}
	return -1
}

func (m *Model) indexOf(r *Record) int {
	for i, rec := range m.records {
		if rec == r {
			return i
		}
	}
	return -1
}

// CommitWriting mirrors Token.Commit for a Writing record: confirm
// transitions to Committed, discard removes it.
func (m *Model) CommitWriting(r *Record, discard bool) {
	i := m.indexOf(r)
	if discard {
		m.removeAt(i)
		return
	}
	m.records[i].State = ringbuf.StateCommitted
}

// CommitReading mirrors Token.Commit for a Reading record. Returns false
// with ok=false for an illegal discard (newer reader active, and
// consumeOnError not set), mirroring ErrProtocol.
func (m *Model) CommitReading(r *Record, discard, consumeOnError bool) (ok bool) {
	i := m.indexOf(r)
	if !discard {
		m.removeAt(i)
		return true
	}

	if i+1 < len(m.records) && m.records[i+1].State == ringbuf.StateReading {
		if !consumeOnError {
			return false
		}
		m.removeAt(i)
		return true
	}

	m.records[i].State = ringbuf.StateCommitted
	return true
}

func (m *Model) removeAt(i int) {
	m.used -= m.nodeCost(len(m.records[i].Payload))
	m.records = append(m.records[:i], m.records[i+1:]...)
}

// ForEach mirrors Buffer.ForEach, visiting oldest to newest.
func (m *Model) ForEach(visit func(*Record) bool) int {
	count := 0
	for _, r := range m.records {
		count++
		if !visit(r) {
			break
		}
	}
	return count
}

// Used mirrors Buffer.Used.
func (m *Model) Used() int { return m.used }

// Len returns the number of live records, for test assertions.
func (m *Model) Len() int { return len(m.records) }
