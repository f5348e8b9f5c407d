package reactor

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// idleCeilingMs is the timeout ceiling used whenever no timer is
// armed: it bounds how long backend.Wait may block so that newly armed
// timers and hand-off posts are observed promptly even without an
// explicit wake. 10ms is a documented design constant; implementers
// may choose a different one as long as it stays documented here.
const idleCeilingMs = 10

// LoopKind selects which variant of the loop body a Reactor runs.
type LoopKind int

const (
	// LoopExitWhenIdle terminates once there are no connections, no
	// armed timers and no posted events left — used by the master
	// when no worker pool exists, and by bounded tasks.
	LoopExitWhenIdle LoopKind = iota
	// LoopPerpetual terminates only when Stop is called (workers).
	LoopPerpetual
)

// Reactor (cycle) is a single-threaded event loop owning an I/O
// backend, timer wheel, and posted-event queue. Exactly one goroutine
// ever calls Run; all other Reactor methods
// documented as cross-thread-safe (safeAdd, Stop, wake) may be called
// from any goroutine.
type Reactor struct {
	backend ioBackend
	wakeSrc *wakeSource
	wakeEvt *event
	clk     clock
	timers  timerWheel
	posted  postedQueue
	handoff handoffQueue

	conns     map[int]*connection
	connCount int
	stop      atomic.Bool

	kind          LoopKind
	idleCeilingMs int

	// data is an opaque collaborator slot, used by a master reactor to
	// hold its *WorkerPool.
	data interface{}

	log zerolog.Logger
}

// NewReactor constructs a Reactor of the given kind with a fresh I/O
// backend sized by hintMaxFDs.
func NewReactor(kind LoopKind, hintMaxFDs int, log zerolog.Logger) (*Reactor, error) {
	backend, err := newIOBackend(hintMaxFDs)
	if err != nil {
		return nil, err
	}
	wakeSrc, err := newWakeSource()
	if err != nil {
		_ = backend.close()
		return nil, err
	}

	r := &Reactor{
		backend:       backend,
		wakeSrc:       wakeSrc,
		kind:          kind,
		idleCeilingMs: idleCeilingMs,
		conns:         make(map[int]*connection),
		log:           log,
	}
	r.posted.init()
	r.handoff.init()

	r.wakeEvt = newEvent(func(e *event) {
		r.wakeSrc.drain()
	}, nil)
	if err := r.backend.register(r.wakeSrc.readFd(), InterestRead); err != nil {
		_ = wakeSrc.close()
		_ = backend.close()
		return nil, err
	}

	return r, nil
}

// Post enqueues e on this reactor's own posted queue. Must only be
// called from the reactor's own goroutine; cross-thread callers use
// safeAdd instead.
func (r *Reactor) Post(e *event) { r.posted.post(e) }

// CancelPost un-posts e. Same single-thread restriction as Post.
func (r *Reactor) CancelPost(e *event) { r.posted.cancelPost(e) }

// arm arms e to fire delayMs from the reactor's cached now.
func (r *Reactor) arm(e *event, delayMs int64) {
	r.timers.insert(e, r.clk.cachedMs()+delayMs)
}

// Disarm disarms e; its handler will never fire.
func (r *Reactor) Disarm(e *event) { r.timers.remove(e) }

// Stop requests a perpetual-loop reactor to exit at the next loop-body
// check, then wakes it so the request is observed promptly even if the
// reactor is blocked in Wait. Safe to call from any goroutine.
func (r *Reactor) Stop() {
	r.stop.Store(true)
	r.wake()
}

// wake writes to the wake fd, interrupting a blocked backend.Wait. It
// is always safe to call from any goroutine.
func (r *Reactor) wake() {
	if err := r.wakeSrc.signal(); err != nil {
		r.log.Debug().Err(err).Msg("wake signal failed")
	}
}

// ConnectionCount returns the number of fds currently registered with
// this reactor's backend.
func (r *Reactor) ConnectionCount() int { return r.connCount }

// Close releases the reactor's backend and wake-fd resources. Call
// only after Run has returned.
func (r *Reactor) Close() error {
	err1 := r.backend.close()
	err2 := r.wakeSrc.close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Run executes the reactor loop body until the termination
// condition for r.kind is met.
func (r *Reactor) Run() {
	for {
		r.clk.update()

		timeoutMs := r.idleCeilingMs
		if expiry, ok := r.timers.findMin(); ok {
			remaining := expiry - r.clk.cachedMs()
			if remaining < 0 {
				remaining = 0
			}
			if int(remaining) < timeoutMs {
				timeoutMs = int(remaining)
			}
		}

		ready, err := r.backend.wait(timeoutMs)
		if err != nil {
			r.log.Error().Err(err).Msg("backend wait failed")
		}
		for _, rd := range ready {
			r.dispatch(rd)
		}

		r.clk.update()
		r.timers.expire(r.clk.cachedMs(), func(e *event) {
			e.handler(e)
		})

		r.handoff.drainInto(&r.posted.q)
		r.posted.drain()

		if r.kind == LoopPerpetual {
			if r.stop.Load() {
				return
			}
			continue
		}

		if r.connCount == 0 && r.posted.isEmpty() && r.timers.Len() == 0 {
			return
		}
	}
}

// dispatch routes one ready I/O notification to the connection
// registered on rd.Fd, invoking its read/write/error events as
// indicated. The wake fd is handled the same way as any other
// registration, via wakeEvt, with no owning *connection.
func (r *Reactor) dispatch(rd ReadyEvent) {
	if rd.Fd == r.wakeSrc.readFd() {
		r.wakeEvt.handler(r.wakeEvt)
		return
	}

	conn, ok := r.conns[rd.Fd]
	if !ok {
		return
	}

	if rd.Error {
		if conn.error != nil {
			conn.error.handler(conn.error)
		}
		return
	}
	if rd.Ready&InterestRead != 0 && conn.read != nil {
		conn.read.handler(conn.read)
	}
	if rd.Ready&InterestWrite != 0 && conn.write != nil {
		conn.write.handler(conn.write)
	}
}
