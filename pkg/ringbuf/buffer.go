package ringbuf

import (
	"encoding/binary"
	"fmt"
)

// Buffer is a bounded, in-place ring buffer allocator over a caller-
// supplied region. The zero value is not usable; construct one with New.
//
// Buffer is not safe for concurrent use; wrap it in
// [SyncBuffer] if multiple goroutines need access.
type Buffer struct {
	_ [0]func() // disallow construction outside this package

	region    []byte
	alignment uint32
	cacheBase uint32
	capacity  uint32
	closed    bool
}

// New initializes a fresh buffer inside region. The
// region must be at least HeapCost(opts) + NodeCost(0, opts) bytes; New
// overwrites any existing contents.
func New(region []byte, opts Options) (*Buffer, error) {
	align := opts.alignmentOrDefault()
	if align < minAlignment || align&(align-1) != 0 {
		return nil, fmt.Errorf("ringbuf: alignment %d must be a power of two >= %d: %w", align, minAlignment, ErrInvalidInput)
	}
	if region == nil {
		return nil, fmt.Errorf("ringbuf: nil region: %w", ErrInvalidInput)
	}
	if len(region) > maxRegionSizeBytes {
		return nil, fmt.Errorf("ringbuf: region size %d exceeds maximum %d: %w", len(region), maxRegionSizeBytes, ErrInvalidInput)
	}

	minSize := headerSize + NodeCost(0, opts)
	if len(region) < minSize {
		return nil, fmt.Errorf("ringbuf: region size %d smaller than minimum %d: %w", len(region), minSize, ErrTooSmall)
	}

	capacity := uint32(len(region)) - headerSize

	b := &Buffer{
		region:    region,
		alignment: align,
		cacheBase: headerSize,
		capacity:  capacity,
	}
	b.initHeader()
	return b, nil
}

// Open attaches to a region that New has already initialized — e.g. a
// file-backed region reopened in a later process — without touching its
// contents. It fails with ErrCorrupt if the header's magic, version, or
// checksum do not check out.
func Open(region []byte, opts Options) (*Buffer, error) {
	if region == nil {
		return nil, fmt.Errorf("ringbuf: nil region: %w", ErrInvalidInput)
	}
	if len(region) < int(headerSize) {
		return nil, fmt.Errorf("ringbuf: region size %d smaller than header %d: %w", len(region), headerSize, ErrTooSmall)
	}

	b := &Buffer{
		region:    region,
		alignment: binary.LittleEndian.Uint32(region[offAlignment:]),
		cacheBase: binary.LittleEndian.Uint32(region[offCacheBase:]),
		capacity:  binary.LittleEndian.Uint32(region[offCapacity:]),
	}
	if err := b.checkHeader(); err != nil {
		return nil, err
	}

	align := opts.alignmentOrDefault()
	if opts.Alignment != 0 && align != b.alignment {
		return nil, fmt.Errorf("ringbuf: region alignment %d does not match requested %d: %w", b.alignment, align, ErrInvalidInput)
	}
	if uint32(len(region)) != b.cacheBase+b.capacity {
		return nil, fmt.Errorf("ringbuf: region size %d does not match header (base=%d, capacity=%d): %w", len(region), b.cacheBase, b.capacity, ErrCorrupt)
	}

	return b, nil
}

func (b *Buffer) initHeader() {
	for i := range b.region[:headerSize] {
		b.region[i] = 0
	}
	copy(b.region[offMagic:], magic[:])
	binary.LittleEndian.PutUint32(b.region[offVersion:], formatVersion)
	binary.LittleEndian.PutUint32(b.region[offAlignment:], b.alignment)
	binary.LittleEndian.PutUint32(b.region[offCacheBase:], b.cacheBase)
	binary.LittleEndian.PutUint32(b.region[offCapacity:], b.capacity)
	binary.LittleEndian.PutUint32(b.region[offImmutableCRC:], computeImmutableCRC(b.region))
	// lost/used/nextSeq/head/tail/oldestReserve are already zero from the
	// clear above: empty buffer, no losses yet, first node gets seq 0.
}

// checkHeader validates the region's immutable prefix (magic, version,
// checksum). Open, Reserve, Consume and Token.Commit run it before touching
// mutable state: it is cheap, O(1), and independent of how many nodes are
// currently live.
func (b *Buffer) checkHeader() error {
	if string(b.region[offMagic:offMagic+4]) != string(magic[:]) {
		return fmt.Errorf("ringbuf: bad magic: %w", ErrCorrupt)
	}
	if binary.LittleEndian.Uint32(b.region[offVersion:]) != formatVersion {
		return fmt.Errorf("ringbuf: unsupported version: %w", ErrCorrupt)
	}
	if binary.LittleEndian.Uint32(b.region[offImmutableCRC:]) != computeImmutableCRC(b.region) {
		return fmt.Errorf("ringbuf: header checksum mismatch: %w", ErrCorrupt)
	}
	return nil
}

// Close releases the buffer's in-process handle. The backing region is
// owned by the caller and is not touched; Close only marks the handle
// unusable. Close is idempotent.
func (b *Buffer) Close() error {
	b.closed = true
	return nil
}

// Capacity returns the cache's usable capacity in bytes (region size minus
// header size).
func (b *Buffer) Capacity() int {
	return int(b.capacity)
}

// Used returns the number of bytes currently occupied by live nodes (sum
// of node_cost over all position-chain nodes). Maintained as an O(1)
// running counter alongside lost, not recomputed by walking the chain.
func (b *Buffer) Used() int {
	return int(b.used())
}

// Reserve computes node_size = align_up
// (node_header_size + len, alignment) and returns a token referencing that
// many writable bytes, or ErrFull if no space is available (optionally
// after evicting committed records when flags includes ReserveOverwrite).
func (b *Buffer) Reserve(length int, flags ReserveFlag) (*Token, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if err := b.checkHeader(); err != nil {
		return nil, err
	}
	if length < 0 || length > maxPayloadSizeBytes {
		return nil, fmt.Errorf("ringbuf: reserve length %d out of range: %w", length, ErrInvalidInput)
	}

	nodeSize := alignUp(nodeHeaderSize+uint32(length), b.alignment)
	return b.reserve(length, nodeSize, flags)
}

// Consume hands out the oldest committed
// record as a Reading token, along with the number of records evicted by
// overwrite since the previous Consume call.
func (b *Buffer) Consume() (*Token, uint64, error) {
	if b.closed {
		return nil, 0, ErrClosed
	}
	if err := b.checkHeader(); err != nil {
		return nil, 0, err
	}
	return b.consume()
}
