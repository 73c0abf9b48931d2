package ringbuf

// Options configures a buffer at New time. The zero value is valid and
// selects the default alignment.
type Options struct {
	// Alignment is the address alignment nodes are padded to, a power of
	// two ≥ 8. Zero selects defaultAlignment (8).
	Alignment uint32
}

func (o Options) alignmentOrDefault() uint32 {
	if o.Alignment == 0 {
		return defaultAlignment
	}
	return o.Alignment
}

// ReserveFlag modifies Buffer.Reserve.
type ReserveFlag uint8

// ReserveOverwrite permits Reserve to evict the oldest committed records
// when no free gap fits the request.
const ReserveOverwrite ReserveFlag = 0x1

// CommitFlag modifies Token.Commit.
type CommitFlag uint8

// The two flag types (ReserveFlag/CommitFlag) are kept distinct, rather
// than sharing one combined flags field, so the compiler rejects passing a
// reserve-only or commit-only flag to the wrong operation.
const (
	CommitDiscard        CommitFlag = 0x2
	CommitConsumeOnError CommitFlag = 0x4
)

// Entry is the payload a ForEach visitor observes for each node in the
// buffer, ordered oldest (TAIL) to newest (HEAD).
type Entry struct {
	Data []byte
	Len  int
}

// HeapCost returns the number of bytes New reserves for its header,
// regardless of region contents. Callers size a region as at least
// HeapCost(opts) + NodeCost(payloadLen, opts) for their largest record.
func HeapCost(opts Options) int {
	return headerSize
}

// NodeCost returns the total bytes a record of the given payload length
// consumes once aligned: the node header plus the payload, aligned up.
func NodeCost(payloadLen int, opts Options) int {
	return int(alignUp(nodeHeaderSize+uint32(payloadLen), opts.alignmentOrDefault()))
}
