package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/ringbuf/pkg/ringbuf"
)

func Test_Model_Reserve_Then_Commit_Makes_Record_Consumable(t *testing.T) {
	m := New(4096, ringbuf.Options{})

	r, ok := m.Reserve(10, false)
	require.True(t, ok, "Reserve should succeed")
	m.CommitWriting(r, false)

	got, lost, ok := m.Consume()
	require.True(t, ok, "Consume should succeed")
	require.Equal(t, r, got, "Consume should return the reserved record")
	require.Zero(t, lost, "lost should be 0")
}

func Test_Model_Consume_On_Empty_Fails(t *testing.T) {
	m := New(4096, ringbuf.Options{})

	_, _, ok := m.Consume()
	require.False(t, ok, "Consume on empty model should fail")
}

func Test_Model_Reserve_Without_Overwrite_Fails_When_Full(t *testing.T) {
	m := New(ringbuf.NodeCost(8, ringbuf.Options{}), ringbuf.Options{})

	r, ok := m.Reserve(8, false)
	require.True(t, ok, "first Reserve should succeed")
	m.CommitWriting(r, false)

	_, ok = m.Reserve(8, false)
	require.False(t, ok, "second Reserve without overwrite should fail when full")
}

func Test_Model_Reserve_With_Overwrite_Evicts_Committed_Oldest(t *testing.T) {
	cost := ringbuf.NodeCost(8, ringbuf.Options{})
	m := New(cost, ringbuf.Options{})

	first, ok := m.Reserve(8, false)
	require.True(t, ok)
	m.CommitWriting(first, false)

	second, ok := m.Reserve(8, true)
	require.True(t, ok, "overwrite Reserve should succeed")
	m.CommitWriting(second, false)

	require.Equal(t, 1, m.Len())

	_, lost, ok := m.Consume()
	require.True(t, ok, "Consume should succeed")
	require.Equal(t, uint64(1), lost, "one record should have been evicted")
}

func Test_Model_Reserve_With_Overwrite_Fails_When_Oldest_Not_Committed(t *testing.T) {
	cost := ringbuf.NodeCost(8, ringbuf.Options{})
	m := New(cost, ringbuf.Options{})

	// left in Writing state: not eligible for eviction.
	_, ok := m.Reserve(8, false)
	require.True(t, ok, "first Reserve should succeed")

	_, ok = m.Reserve(8, true)
	require.False(t, ok, "overwrite Reserve over a Writing node should fail")
}

func Test_Model_CommitReading_Discard_Blocked_By_Newer_Reader(t *testing.T) {
	m := New(4096, ringbuf.Options{})

	a, ok := m.Reserve(4, false)
	require.True(t, ok)
	m.CommitWriting(a, false)
	b, ok := m.Reserve(4, false)
	require.True(t, ok)
	m.CommitWriting(b, false)

	aTok, _, ok := m.Consume()
	require.True(t, ok)
	bTok, _, ok := m.Consume()
	require.True(t, ok)

	ok = m.CommitReading(aTok, true, false)
	require.False(t, ok, "discard of older read while newer is Reading should be blocked")

	// allowed once consumeOnError is set: forces the skip.
	ok = m.CommitReading(aTok, true, true)
	require.True(t, ok, "discard with consumeOnError should succeed")

	ok = m.CommitReading(bTok, false, false)
	require.True(t, ok, "confirm of b should succeed")
}

func Test_Model_ForEach_Visits_Oldest_To_Newest(t *testing.T) {
	m := New(4096, ringbuf.Options{})

	for i := 0; i < 3; i++ {
		r, ok := m.Reserve(1, false)
		require.True(t, ok)
		m.CommitWriting(r, false)
	}

	var ids []uint64
	count := m.ForEach(func(r *Record) bool {
		ids = append(ids, r.ID)
		return true
	})

	require.Equal(t, 3, count)
	for i, id := range ids {
		require.Equal(t, uint64(i), id, "ids[%d]", i)
	}
}
