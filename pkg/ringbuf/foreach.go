package ringbuf

// ForEach walks the time chain from TAIL
// (oldest) to HEAD (newest), calling visit for each node regardless of its
// state, and stops early if visit returns false. It returns the number of
// nodes visited, counting the one that stopped the walk.
func (b *Buffer) ForEach(visit func(Entry) bool) int {
	count := 0
	off := b.tail()
	for off != 0 {
		entry := Entry{Data: b.payload(off), Len: int(b.nodeLen(off))}
		count++
		if !visit(entry) {
			break
		}
		off = b.timeNewer(off)
	}
	return count
}
