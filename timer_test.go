package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTimerWheelOrdersByExpiry verifies that timers armed
// for 30ms, 10ms, 20ms fire in 10, 20, 30 order.
func TestTimerWheelOrdersByExpiry(t *testing.T) {
	var w timerWheel

	e30 := newEvent(nil, "30")
	e10 := newEvent(nil, "10")
	e20 := newEvent(nil, "20")

	w.insert(e30, 30)
	w.insert(e10, 10)
	w.insert(e20, 20)

	var order []string
	w.expire(100, func(e *event) { order = append(order, e.data.(string)) })

	require.Equal(t, []string{"10", "20", "30"}, order)
}

func TestTimerWheelExpiresOnlyDueEvents(t *testing.T) {
	var w timerWheel

	early := newEvent(nil, "early")
	late := newEvent(nil, "late")
	w.insert(early, 10)
	w.insert(late, 1000)

	var fired []string
	w.expire(10, func(e *event) { fired = append(fired, e.data.(string)) })

	require.Equal(t, []string{"early"}, fired)

	min, ok := w.findMin()
	require.True(t, ok)
	require.Equal(t, int64(1000), min)
}

func TestTimerWheelReinsertMovesExpiry(t *testing.T) {
	var w timerWheel

	e := newEvent(nil, "e")
	w.insert(e, 50)
	w.insert(e, 5)

	require.Equal(t, 1, w.Len(), "reinsert must not duplicate")

	min, ok := w.findMin()
	require.True(t, ok)
	require.Equal(t, int64(5), min)
}

func TestTimerWheelRemoveDisarms(t *testing.T) {
	var w timerWheel

	e := newEvent(nil, "e")
	w.insert(e, 10)
	w.remove(e)

	require.False(t, e.timerSet, "timerSet must be false after remove")

	_, ok := w.findMin()
	require.False(t, ok, "wheel must be empty after removing its only event")

	// remove on an already-disarmed event must be a harmless no-op.
	w.remove(e)
}

func TestTimerWheelEmptyFindMin(t *testing.T) {
	var w timerWheel
	_, ok := w.findMin()
	require.False(t, ok, "findMin on empty wheel must report ok=false")
}
