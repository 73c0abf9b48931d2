package ringbuf

import "errors"

// Sentinel errors. Classify with [errors.Is]; callers should not match on
// error strings.
var (
	// ErrInvalidInput is returned when an argument is structurally invalid:
	// a nil region or one above the size limit, a non-power-of-two
	// alignment (or, in Open, one that does not match the region's), a
	// negative or over-limit reserve length.
	ErrInvalidInput = errors.New("ringbuf: invalid input")

	// ErrCorrupt is returned when a region's header fails its magic/version/
	// checksum check, or when Open finds the region's size does not match
	// its header. The region cannot be used; re-provision it.
	ErrCorrupt = errors.New("ringbuf: corrupt region")

	// ErrTooSmall is returned by New when the supplied region cannot hold
	// the header plus at least one minimum-size node, and by Open when it
	// cannot hold the header.
	ErrTooSmall = errors.New("ringbuf: region too small")

	// ErrFull is returned by Reserve when no gap (and, if permitted, no
	// eviction) can satisfy the request.
	ErrFull = errors.New("ringbuf: no space available")

	// ErrEmpty is returned by Consume when there is no committed record to
	// hand out.
	ErrEmpty = errors.New("ringbuf: nothing committed to consume")

	// ErrProtocol is returned by Token.Commit(CommitDiscard) on a Reading
	// token that has a strictly newer Reading neighbor, unless
	// CommitConsumeOnError is also set.
	ErrProtocol = errors.New("ringbuf: newer reader still active")

	// ErrClosed is returned by any operation on a Buffer after Close, or by
	// Commit on a token whose node is no longer Writing or Reading (already
	// committed/removed).
	ErrClosed = errors.New("ringbuf: buffer closed")
)
