package reactor

// listNode is one link in an intrusive, circular, doubly-linked list.
// Every *event carries one listNode by value (event.qlink) so that
// posting it costs no allocation: insert_tail/remove are pointer
// rewiring only. A node whose event field is nil is a sentinel (the
// list head itself).
type listNode struct {
	prev, next *listNode
	event      *event
}

// eventQueue is a sentinel-headed circular doubly linked list, used for
// both the per-reactor posted-event queue and, before splicing, the
// cross-thread hand-off queue. All operations are O(1) and
// allocation-free.
type eventQueue struct {
	sentinel listNode
}

// init makes q an empty circular list pointing at itself.
func (q *eventQueue) init() {
	q.sentinel.prev = &q.sentinel
	q.sentinel.next = &q.sentinel
	q.sentinel.event = nil
}

// isEmpty reports whether q has no linked nodes.
func (q *eventQueue) isEmpty() bool {
	return q.sentinel.next == &q.sentinel
}

// insertTail appends e's node to the end of q.
func (q *eventQueue) insertTail(e *event) {
	n := &e.qlink
	n.event = e
	last := q.sentinel.prev
	n.prev = last
	n.next = &q.sentinel
	last.next = n
	q.sentinel.prev = n
}

// remove unlinks e's node from whatever list currently holds it. It is
// a no-op's inverse: calling remove on a node not currently linked
// corrupts the list, so callers gate on the owning flag (posted /
// timer_set) before calling it.
func (q *eventQueue) remove(e *event) {
	n := &e.qlink
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}

// head returns the event at the front of q, or nil if q is empty.
func (q *eventQueue) head() *event {
	if q.isEmpty() {
		return nil
	}
	return q.sentinel.next.event
}

// splice moves every node currently in src onto the tail of dst in O(1)
// and re-initializes src to empty. Used by the hand-off queue's
// consumer side to move wrapped events onto the local posted queue
// under the spin lock (see handoff.go).
func splice(dst, src *eventQueue) {
	if src.isEmpty() {
		return
	}

	firstSrc := src.sentinel.next
	lastSrc := src.sentinel.prev
	lastDst := dst.sentinel.prev

	lastDst.next = firstSrc
	firstSrc.prev = lastDst

	lastSrc.next = &dst.sentinel
	dst.sentinel.prev = lastSrc

	src.init()
}
