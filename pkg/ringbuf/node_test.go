package ringbuf

import "testing"

func newInternalTestBuffer(t *testing.T, cacheCapacity int) *Buffer {
	t.Helper()
	opts := Options{}
	region := make([]byte, HeapCost(opts)+cacheCapacity)
	buf, err := New(region, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return buf
}

func Test_PlaceSole_Is_Self_Referential_In_Both_Chains(t *testing.T) {
	b := newInternalTestBuffer(t, 256)
	off := b.cacheBase
	b.installNode(off, 4)
	b.placeSole(off)

	if got := b.posForward(off); got != off {
		t.Fatalf("posForward(sole)=%d, want %d", got, off)
	}
	if got := b.posBackward(off); got != off {
		t.Fatalf("posBackward(sole)=%d, want %d", got, off)
	}
	if got := b.timeNewer(off); got != 0 {
		t.Fatalf("timeNewer(sole)=%d, want 0", got)
	}
	if got := b.timeOlder(off); got != 0 {
		t.Fatalf("timeOlder(sole)=%d, want 0", got)
	}
	if got := b.head(); got != off {
		t.Fatalf("head=%d, want %d", got, off)
	}
	if got := b.tail(); got != off {
		t.Fatalf("tail=%d, want %d", got, off)
	}
	if got := b.oldestReserve(); got != off {
		t.Fatalf("oldestReserve=%d, want %d", got, off)
	}
}

func Test_InsertAsNewest_Links_Both_Chains(t *testing.T) {
	b := newInternalTestBuffer(t, 256)

	a := b.cacheBase
	b.installNode(a, 4)
	b.placeSole(a)

	bOff := a + b.nodeTotalSize(a)
	b.installNode(bOff, 4)
	b.insertAsNewest(bOff, a)

	if got := b.posForward(a); got != bOff {
		t.Fatalf("posForward(a)=%d, want %d", got, bOff)
	}
	if got := b.posForward(bOff); got != a {
		t.Fatalf("posForward(b)=%d, want %d", got, a)
	}
	if got := b.timeNewer(a); got != bOff {
		t.Fatalf("timeNewer(a)=%d, want %d", got, bOff)
	}
	if got := b.timeOlder(bOff); got != a {
		t.Fatalf("timeOlder(b)=%d, want %d", got, a)
	}
	if got := b.head(); got != bOff {
		t.Fatalf("head=%d, want %d", got, bOff)
	}
	if got := b.tail(); got != a {
		t.Fatalf("tail=%d, want %d", got, a)
	}
}

func Test_RemoveNode_Of_Sole_Node_Empties_Buffer(t *testing.T) {
	b := newInternalTestBuffer(t, 256)
	off := b.cacheBase
	b.installNode(off, 4)
	b.placeSole(off)
	b.setUsed(uint64(b.nodeTotalSize(off)))

	b.removeNode(off)

	if got := b.head(); got != 0 {
		t.Fatalf("head=%d, want 0", got)
	}
	if got := b.tail(); got != 0 {
		t.Fatalf("tail=%d, want 0", got)
	}
	if got := b.oldestReserve(); got != 0 {
		t.Fatalf("oldestReserve=%d, want 0", got)
	}
	if got := b.used(); got != 0 {
		t.Fatalf("used=%d, want 0", got)
	}
}

func Test_RemoveNode_Of_Tail_Advances_Tail(t *testing.T) {
	b := newInternalTestBuffer(t, 256)

	a := b.cacheBase
	b.installNode(a, 4)
	b.placeSole(a)
	b.setUsed(uint64(b.nodeTotalSize(a)))

	bOff := a + b.nodeTotalSize(a)
	b.installNode(bOff, 4)
	b.insertAsNewest(bOff, a)
	b.setUsed(b.used() + uint64(b.nodeTotalSize(bOff)))
	b.setOldestReserve(bOff)

	b.removeNode(a)

	if got := b.tail(); got != bOff {
		t.Fatalf("tail=%d, want %d", got, bOff)
	}
	if got := b.head(); got != bOff {
		t.Fatalf("head=%d, want %d", got, bOff)
	}
	if got := b.posForward(bOff); got != bOff {
		t.Fatalf("posForward(b)=%d, want self (%d)", got, bOff)
	}
}
