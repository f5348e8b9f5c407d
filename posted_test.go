package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostedQueueDrainFIFO(t *testing.T) {
	var p postedQueue
	p.init()

	var order []string
	mk := func(name string) *event {
		return newEvent(func(e *event) { order = append(order, name) }, nil)
	}

	p.post(mk("a"))
	p.post(mk("b"))
	p.post(mk("c"))

	p.drain()

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.True(t, p.isEmpty(), "queue must be empty after drain")
}

// TestPostedQueueRepostDuringDrain verifies that a handler which
// re-posts another event mid-drain has that event processed before
// drain returns, in FIFO order relative to events already queued.
func TestPostedQueueRepostDuringDrain(t *testing.T) {
	var p postedQueue
	p.init()

	var order []string
	var c *event
	c = newEvent(func(e *event) { order = append(order, "c") }, nil)

	a := newEvent(func(e *event) {
		order = append(order, "a")
		p.post(c)
	}, nil)
	b := newEvent(func(e *event) { order = append(order, "b") }, nil)

	p.post(a)
	p.post(b)

	p.drain()

	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestPostedQueueCancelPost(t *testing.T) {
	var p postedQueue
	p.init()

	fired := false
	e := newEvent(func(e *event) { fired = true }, nil)

	p.post(e)
	p.cancelPost(e)
	p.drain()

	require.False(t, fired, "cancelled event must not fire")
	require.False(t, e.posted, "posted flag must be false after cancelPost")
}

func TestPostedQueuePostPanicsIfAlreadyPosted(t *testing.T) {
	var p postedQueue
	p.init()
	e := newEvent(func(*event) {}, nil)
	p.post(e)

	require.Panics(t, func() { p.post(e) }, "post of an already-posted event must panic")
}

func TestPostedQueueCancelPanicsIfNotPosted(t *testing.T) {
	var p postedQueue
	p.init()
	e := newEvent(func(*event) {}, nil)

	require.Panics(t, func() { p.cancelPost(e) }, "cancel_post of an unposted event must panic")
}
