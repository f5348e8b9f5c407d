package reactor

// postedQueue is the per-reactor FIFO of deferred callbacks. It is
// owned by exactly one reactor goroutine and never touched from
// another.
type postedQueue struct {
	q eventQueue
}

func (p *postedQueue) init() { p.q.init() }

func (p *postedQueue) isEmpty() bool { return p.q.isEmpty() }

// post enqueues e. It panics if e is already posted — a precondition
// violation equivalent to `assert !event.posted`; silently losing a
// posted callback is worse than a loud failure here.
func (p *postedQueue) post(e *event) {
	if e.posted {
		panic("reactor: event already posted")
	}
	e.posted = true
	p.q.insertTail(e)
}

// cancelPost un-posts e. It panics if e is not currently posted.
func (p *postedQueue) cancelPost(e *event) {
	if !e.posted {
		panic("reactor: cancel_post of unposted event")
	}
	e.posted = false
	p.q.remove(e)
}

// drain repeatedly takes the head of the queue, clears its posted
// flag, and invokes its handler. Events posted *during* the drain
// (including by handlers run in this same call) are processed before
// drain returns — drain stops only when the queue is observed empty at
// the start of an iteration.
func (p *postedQueue) drain() {
	for {
		e := p.q.head()
		if e == nil {
			return
		}
		e.posted = false
		p.q.remove(e)
		e.handler(e)
	}
}
