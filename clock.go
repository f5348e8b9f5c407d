package reactor

import "time"

// clock is the single source of truth for timestamps observed by one
// reactor's timers and posted-event handlers. It samples the monotonic
// clock on demand (update) and caches the result so that every
// comparison within one loop iteration sees the same "now" (see the
// reactor loop body in reactor.go).
//
// clock is owned by exactly one reactor goroutine; it is never touched
// from another thread.
type clock struct {
	cached int64 // cached milliseconds, valid after the first update
}

// clockBase is the reference point nowMs measures from; time.Since on
// it uses Go's monotonic clock reading.
var clockBase = time.Now()

// nowMs returns the current monotonic time in milliseconds.
func nowMs() int64 {
	return time.Since(clockBase).Milliseconds()
}

// update samples the clock and stores the result as the new cached value.
func (c *clock) update() int64 {
	c.cached = nowMs()
	return c.cached
}

// cachedMs returns the last value stored by update.
func (c *clock) cachedMs() int64 {
	return c.cached
}
