package ringbuf

import (
	"encoding/binary"
	"hash/crc32"
)

// Region layout:
//
//	[0, headerSize)                 header
//	[headerSize, headerSize+capacity) cache (nodes)
//
// Header layout (64 bytes, little-endian):
//
//	0x00  magic         [4]byte
//	0x04  version       uint32
//	0x08  alignment     uint32
//	0x0C  cacheBase     uint32
//	0x10  capacity      uint32
//	0x14  immutableCRC  uint32  (crc32-C over bytes [0x00,0x14))
//	0x18  lost          uint64
//	0x20  used          uint64
//	0x28  nextSeq       uint64
//	0x30  head          uint32  (0 = absent)
//	0x34  tail          uint32  (0 = absent)
//	0x38  oldestReserve uint32  (0 = absent)
//	0x3C  reserved      uint32
//
// Only [0x00,0x14) is checksummed: those fields are written once at New and
// never change again. The mutable fields below them (lost/used/nextSeq/
// head/tail/oldestReserve) change on nearly every call, so continuously
// recomputing a checksum over them would defeat the point of an in-place,
// allocation-free data structure; instead Open, Reserve, Consume and
// Token.Commit validate only the immutable prefix (magic + version + its
// checksum), catching
// "wrong region" and gross corruption without adding per-operation cost
// proportional to the number of live nodes.
const (
	headerSize = 64

	offMagic         = 0x00
	offVersion       = 0x04
	offAlignment     = 0x08
	offCacheBase     = 0x0C
	offCapacity      = 0x10
	offImmutableCRC  = 0x14
	offLost          = 0x18
	offUsed          = 0x20
	offNextSeq       = 0x28
	offHead          = 0x30
	offTail          = 0x34
	offOldestReserve = 0x38

	immutablePrefixLen = offImmutableCRC

	formatVersion = 1
)

var magic = [4]byte{'R', 'B', 'F', '1'}

func computeImmutableCRC(region []byte) uint32 {
	return crc32.Checksum(region[:immutablePrefixLen], crc32.MakeTable(crc32.Castagnoli))
}

// Node header layout (32 bytes, little-endian), immediately preceding each
// node's payload:
//
//	0x00  state        uint8
//	0x01  _            [3]byte  (padding)
//	0x04  len          uint32
//	0x08  posForward   uint32
//	0x0C  posBackward  uint32
//	0x10  timeNewer    uint32   (0 = absent; identifies HEAD)
//	0x14  timeOlder    uint32   (0 = absent; identifies TAIL)
//	0x18  seq          uint64   (monotonic insertion sequence, for O(1)
//	                             temporal-order comparison between nodes
//	                             without walking the time chain)
const (
	nodeHeaderSize = 32

	nodeOffState       = 0x00
	nodeOffLen         = 0x04
	nodeOffPosForward  = 0x08
	nodeOffPosBackward = 0x0C
	nodeOffTimeNewer   = 0x10
	nodeOffTimeOlder   = 0x14
	nodeOffSeq         = 0x18
)

// Node states.
const (
	nodeStateWriting uint8 = iota
	nodeStateCommitted
	nodeStateReading
)

// State identifies a node's lifecycle stage for code outside the package,
// such as the test model; the wire representation (nodeState* above) stays
// unexported since callers never need the raw byte. ForEach's Entry does
// not carry a State.
type State uint8

const (
	StateWriting State = iota
	StateCommitted
	StateReading
)

func (s State) String() string {
	switch s {
	case StateWriting:
		return "writing"
	case StateCommitted:
		return "committed"
	case StateReading:
		return "reading"
	default:
		return "unknown"
	}
}

func publicState(s uint8) State {
	return State(s)
}

// alignUp rounds n up to the next multiple of a (a must be a power of two).
func alignUp(n, a uint32) uint32 {
	return (n + a - 1) &^ (a - 1)
}

// --- header accessors: operate directly on the region byte slice, since
// the header's mutable fields are the single source of truth (not cached
// in the Buffer struct) and all metadata must live inside the region
// itself. ---

func (b *Buffer) lost() uint64 {
	return binary.LittleEndian.Uint64(b.region[offLost:])
}

func (b *Buffer) setLost(v uint64) {
	binary.LittleEndian.PutUint64(b.region[offLost:], v)
}

func (b *Buffer) used() uint64 {
	return binary.LittleEndian.Uint64(b.region[offUsed:])
}

func (b *Buffer) setUsed(v uint64) {
	binary.LittleEndian.PutUint64(b.region[offUsed:], v)
}

func (b *Buffer) nextSeq() uint64 {
	return binary.LittleEndian.Uint64(b.region[offNextSeq:])
}

func (b *Buffer) takeSeq() uint64 {
	v := b.nextSeq()
	binary.LittleEndian.PutUint64(b.region[offNextSeq:], v+1)
	return v
}

func (b *Buffer) head() uint32 {
	return binary.LittleEndian.Uint32(b.region[offHead:])
}

func (b *Buffer) setHead(v uint32) {
	binary.LittleEndian.PutUint32(b.region[offHead:], v)
}

func (b *Buffer) tail() uint32 {
	return binary.LittleEndian.Uint32(b.region[offTail:])
}

func (b *Buffer) setTail(v uint32) {
	binary.LittleEndian.PutUint32(b.region[offTail:], v)
}

func (b *Buffer) oldestReserve() uint32 {
	return binary.LittleEndian.Uint32(b.region[offOldestReserve:])
}

func (b *Buffer) setOldestReserve(v uint32) {
	binary.LittleEndian.PutUint32(b.region[offOldestReserve:], v)
}

// --- node accessors ---

func (b *Buffer) nodeState(off uint32) uint8 {
	return b.region[off+nodeOffState]
}

func (b *Buffer) setNodeState(off uint32, s uint8) {
	b.region[off+nodeOffState] = s
}

func (b *Buffer) nodeLen(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.region[off+nodeOffLen:])
}

func (b *Buffer) setNodeLen(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.region[off+nodeOffLen:], v)
}

func (b *Buffer) posForward(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.region[off+nodeOffPosForward:])
}

func (b *Buffer) setPosForward(off, v uint32) {
	binary.LittleEndian.PutUint32(b.region[off+nodeOffPosForward:], v)
}

func (b *Buffer) posBackward(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.region[off+nodeOffPosBackward:])
}

func (b *Buffer) setPosBackward(off, v uint32) {
	binary.LittleEndian.PutUint32(b.region[off+nodeOffPosBackward:], v)
}

func (b *Buffer) timeNewer(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.region[off+nodeOffTimeNewer:])
}

func (b *Buffer) setTimeNewer(off, v uint32) {
	binary.LittleEndian.PutUint32(b.region[off+nodeOffTimeNewer:], v)
}

func (b *Buffer) timeOlder(off uint32) uint32 {
	return binary.LittleEndian.Uint32(b.region[off+nodeOffTimeOlder:])
}

func (b *Buffer) setTimeOlder(off, v uint32) {
	binary.LittleEndian.PutUint32(b.region[off+nodeOffTimeOlder:], v)
}

func (b *Buffer) nodeSeq(off uint32) uint64 {
	return binary.LittleEndian.Uint64(b.region[off+nodeOffSeq:])
}

func (b *Buffer) setNodeSeq(off uint32, v uint64) {
	binary.LittleEndian.PutUint64(b.region[off+nodeOffSeq:], v)
}

// nodeTotalSize returns the full on-wire size (header + aligned payload) of
// the node at off.
func (b *Buffer) nodeTotalSize(off uint32) uint32 {
	return alignUp(nodeHeaderSize+b.nodeLen(off), b.alignment)
}

// payload returns the writable/readable payload slice of the node at off.
func (b *Buffer) payload(off uint32) []byte {
	l := b.nodeLen(off)
	start := off + nodeHeaderSize
	return b.region[start : start+l : start+l]
}
