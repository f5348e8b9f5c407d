package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventQueueFIFOOrder(t *testing.T) {
	var q eventQueue
	q.init()
	require.True(t, q.isEmpty(), "freshly initialized queue must be empty")

	a := newEvent(nil, "a")
	b := newEvent(nil, "b")
	c := newEvent(nil, "c")

	q.insertTail(a)
	q.insertTail(b)
	q.insertTail(c)

	var order []string
	for {
		e := q.head()
		if e == nil {
			break
		}
		q.remove(e)
		order = append(order, e.data.(string))
	}

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.True(t, q.isEmpty(), "queue must be empty after draining all nodes")
}

func TestEventQueueRemoveMiddle(t *testing.T) {
	var q eventQueue
	q.init()

	a := newEvent(nil, "a")
	b := newEvent(nil, "b")
	c := newEvent(nil, "c")
	q.insertTail(a)
	q.insertTail(b)
	q.insertTail(c)

	q.remove(b)
	require.Same(t, a, q.head())

	q.remove(a)
	require.Same(t, c, q.head())
}

func TestSpliceMovesAllNodesInOrder(t *testing.T) {
	var dst, src eventQueue
	dst.init()
	src.init()

	d1 := newEvent(nil, "d1")
	dst.insertTail(d1)

	s1 := newEvent(nil, "s1")
	s2 := newEvent(nil, "s2")
	src.insertTail(s1)
	src.insertTail(s2)

	splice(&dst, &src)
	require.True(t, src.isEmpty(), "src must be empty after splice")

	var got []string
	for {
		e := dst.head()
		if e == nil {
			break
		}
		dst.remove(e)
		got = append(got, e.data.(string))
	}
	require.Equal(t, []string{"d1", "s1", "s2"}, got)
}

func TestSpliceEmptySourceIsNoop(t *testing.T) {
	var dst, src eventQueue
	dst.init()
	src.init()

	d1 := newEvent(nil, "d1")
	dst.insertTail(d1)

	splice(&dst, &src)
	require.Same(t, d1, dst.head(), "splice with empty src must leave dst unchanged")
}
