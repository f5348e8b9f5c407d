package reactor

// Handler is invoked when an event fires, whether by I/O dispatch,
// timer expiry, or posted-queue drain. Handlers are fire-and-forget:
// they return no value.
type Handler func(e *event)

// event is the unit of deferred and timed work inside one reactor. An
// event may be posted (queued in a reactor's posted-event queue),
// timer-armed (present in a timer wheel), or both at once — but only
// when both structures belong to the same reactor.
//
// event is created and destroyed by the reactor that owns it; it is
// never touched concurrently by more than one goroutine, including the
// hand-off wrapper events created by safeAdd, which belong to the
// target reactor from the moment they are spliced into P.
type event struct {
	handler Handler
	data    interface{}

	qlink  listNode // node in whichever eventQueue currently holds this event
	posted bool

	timerIdx  int   // index maintained by container/heap; valid only while timerSet
	expiryMs  int64 // absolute monotonic ms; valid only while timerSet
	timerSet  bool
	timerSeq  uint64 // insertion sequence, breaks expiry ties in FIFO order
}

// newEvent allocates and zero-initializes an event bound to handler and
// data.
func newEvent(handler Handler, data interface{}) *event {
	return &event{handler: handler, data: data}
}

// destroyEvent releases e. The caller must ensure e is neither posted nor
// timer-set; violating this is a programming error in the owning
// reactor and panics rather than silently corrupting a list.
func destroyEvent(e *event) {
	if e.posted {
		panic("reactor: destroy of posted event")
	}
	if e.timerSet {
		panic("reactor: destroy of timer-armed event")
	}
}
