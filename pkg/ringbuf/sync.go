package ringbuf

import "sync"

// SyncBuffer wraps a Buffer with a mutex, for callers that need to drive
// reserve/consume from more than one goroutine: callers requiring thread
// safety wrap the core in a mutex, promoted here to a named component.
//
// Unlike pkg/slotcache's seqlock-based locking (built for many concurrent
// readers against one mmap'd writer across processes), SyncBuffer
// serializes every call behind a single mutex: the core's concurrency
// model is single-producer/single-consumer, not multi-reader, so there is
// no concurrent-read path worth optimizing for.
type SyncBuffer struct {
	mu  sync.Mutex
	buf *Buffer
}

// NewSync wraps an existing Buffer for concurrent use.
func NewSync(buf *Buffer) *SyncBuffer {
	return &SyncBuffer{buf: buf}
}

func (s *SyncBuffer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Close()
}

func (s *SyncBuffer) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Capacity()
}

func (s *SyncBuffer) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Used()
}

// Reserve locks, reserves, and returns a SyncToken wrapping the result so
// that a later Commit re-acquires the same mutex.
func (s *SyncBuffer) Reserve(length int, flags ReserveFlag) (*SyncToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.buf.Reserve(length, flags)
	if err != nil {
		return nil, err
	}
	return &SyncToken{sb: s, tok: tok}, nil
}

// Consume locks, consumes, and returns a SyncToken wrapping the result.
func (s *SyncBuffer) Consume() (*SyncToken, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, lost, err := s.buf.Consume()
	if err != nil {
		return nil, 0, err
	}
	return &SyncToken{sb: s, tok: tok}, lost, nil
}

// ForEach locks for the duration of the walk.
func (s *SyncBuffer) ForEach(visit func(Entry) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.ForEach(visit)
}

// SyncToken is the SyncBuffer analog of Token: Data/Len/Commit each
// re-acquire SyncBuffer's mutex, so a caller holding a SyncToken across
// goroutines still serializes correctly against concurrent Reserve/Consume
// calls on the same SyncBuffer.
type SyncToken struct {
	sb  *SyncBuffer
	tok *Token
}

func (t *SyncToken) Data() []byte {
	t.sb.mu.Lock()
	defer t.sb.mu.Unlock()
	return t.tok.Data()
}

func (t *SyncToken) Len() int {
	t.sb.mu.Lock()
	defer t.sb.mu.Unlock()
	return t.tok.Len()
}

func (t *SyncToken) Commit(flags CommitFlag) error {
	t.sb.mu.Lock()
	defer t.sb.mu.Unlock()
	return t.tok.Commit(flags)
}
