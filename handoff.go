package reactor

import "sync/atomic"

// handoffQueue is a producer-safe, consumer-drained queue: any thread
// may enqueue (safeAdd), only the owning reactor ever drains it, and
// count gives a lock-free fast-path emptiness test for the consumer.
type handoffQueue struct {
	lock  spinlock
	q     eventQueue
	count atomic.Int64 // mirrors q's length for the fast path
}

func (h *handoffQueue) init() {
	h.q.init()
	h.count.Store(0)
}

// enqueue links wrapper onto h under the spin lock and bumps count.
// wrapper.posted is set here, matching the posted-queue invariant that
// posted is true whenever an event is linked into a posted-style queue
// — drainInto hands wrapper to the target reactor's posted queue
// without re-setting it, and posted.drain() clears it when the wrapper
// finally runs. Called by safeAdd from any goroutine.
func (h *handoffQueue) enqueue(wrapper *event) {
	h.lock.lock()
	wrapper.posted = true
	h.q.insertTail(wrapper)
	h.count.Add(1)
	h.lock.unlock()
}

// drainInto splices every pending wrapper onto dst. The fast-path
// zero-count check is lock-free; a nonzero observation always falls
// through to the locked splice, so a racing enqueue can never be lost.
func (h *handoffQueue) drainInto(dst *eventQueue) {
	if h.count.Load() == 0 {
		return
	}
	h.lock.lock()
	splice(dst, &h.q)
	h.count.Store(0)
	h.lock.unlock()
}

// safeEventData carries the caller-supplied hook and its argument
// event across the hand-off boundary: an event whose own handler
// invokes the wrapped hook once it runs as an ordinary posted event on
// the target reactor, then discards the wrapper.
type safeEventData struct {
	target *Reactor
	inner  *event
	hook   func(r *Reactor, e *event)
}

// safeAdd wraps inner into a fresh hand-off event whose handler invokes
// hook(target, inner) and then drops the wrapper, enqueues it on
// target's hand-off queue, and wakes target's blocked backend.Wait.
// safeAdd may be called from any goroutine; it is the only
// cross-thread entry point into a reactor's event graph.
func safeAdd(target *Reactor, inner *event, hook func(r *Reactor, e *event)) {
	data := &safeEventData{target: target, inner: inner, hook: hook}
	wrapper := newEvent(safeEventHandler, data)
	target.handoff.enqueue(wrapper)
	target.wake()
}

// safeEventHandler is the handler installed on every hand-off wrapper.
// It runs on the target reactor's own goroutine once drainHandoff has
// spliced the wrapper into the local posted queue and posted.drain has
// reached it.
func safeEventHandler(e *event) {
	data := e.data.(*safeEventData)
	data.hook(data.target, data.inner)
}
