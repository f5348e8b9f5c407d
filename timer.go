package reactor

import "container/heap"

// timerWheel is a key-ordered min-heap of armed events, indexed by
// absolute expiry in milliseconds, with insertion order as the tie
// breaker. The name is inherited from nginx-style rbtree timers even
// though the implementation here is a container/heap-backed min-heap.
type timerWheel struct {
	items []*event
	seq   uint64
}

func (w *timerWheel) Len() int { return len(w.items) }

func (w *timerWheel) Less(i, j int) bool {
	if w.items[i].expiryMs != w.items[j].expiryMs {
		return w.items[i].expiryMs < w.items[j].expiryMs
	}
	return w.items[i].timerSeq < w.items[j].timerSeq
}

func (w *timerWheel) Swap(i, j int) {
	w.items[i], w.items[j] = w.items[j], w.items[i]
	w.items[i].timerIdx = i
	w.items[j].timerIdx = j
}

func (w *timerWheel) Push(x interface{}) {
	e := x.(*event)
	e.timerIdx = len(w.items)
	w.items = append(w.items, e)
}

func (w *timerWheel) Pop() interface{} {
	old := w.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.timerIdx = -1
	w.items = old[:n-1]
	return e
}

// insert arms e to fire at expiryMs. If e is already armed, it is
// removed and reinserted at the new expiry.
func (w *timerWheel) insert(e *event, expiryMs int64) {
	if e.timerSet {
		heap.Remove(w, e.timerIdx)
	}
	w.seq++
	e.expiryMs = expiryMs
	e.timerSeq = w.seq
	e.timerSet = true
	heap.Push(w, e)
}

// remove disarms e, the inverse of insert. Removing an event that is
// not armed is a no-op.
func (w *timerWheel) remove(e *event) {
	if !e.timerSet {
		return
	}
	heap.Remove(w, e.timerIdx)
	e.timerSet = false
}

// findMin returns the minimum armed expiry, or (0, false) if the wheel
// is empty — callers translate the false case to an "infinite" wait
// timeout, which then collapses to the loop's idle ceiling.
func (w *timerWheel) findMin() (int64, bool) {
	if len(w.items) == 0 {
		return 0, false
	}
	return w.items[0].expiryMs, true
}

// expire pops every event whose expiry is <= nowMs, in expiry order
// (ties broken by insertion order), invoking fn on each. fn is expected
// to call the event's handler; expire itself only manages wheel
// bookkeeping.
func (w *timerWheel) expire(nowMs int64, fn func(*event)) {
	for len(w.items) > 0 {
		e := w.items[0]
		if e.expiryMs > nowMs {
			break
		}
		heap.Pop(w)
		e.timerSet = false
		fn(e)
	}
}
