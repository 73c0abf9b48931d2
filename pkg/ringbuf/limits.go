package ringbuf

// Implementation limits. These are not part of the data model; they exist
// to keep offset arithmetic inside uint32 and to reject configurations that
// could never be satisfied.
const (
	// defaultAlignment is used when Options.Alignment is zero.
	defaultAlignment = 8

	// minAlignment is the smallest alignment New accepts.
	minAlignment = 8

	// maxPayloadSizeBytes bounds a single Reserve's length. Chosen well
	// below the point where headerSize+len could overflow uint32 once
	// aligned, with generous headroom for any realistic record size.
	maxPayloadSizeBytes = 1 << 28 // 256 MiB

	// maxRegionSizeBytes bounds the region New accepts. Node links are
	// uint32 byte offsets, so the region must comfortably fit under 2^32;
	// this leaves headroom below that ceiling.
	maxRegionSizeBytes = 1<<32 - 1<<20
)
