package reactor

// connection is a registered file descriptor plus its three event
// slots. Any slot may be nil. A connection is destroyed only after it
// has been deregistered and its event slots have been disarmed/
// un-posted and destroyed by the caller.
type connection struct {
	reactor *Reactor
	fd      int

	read  *event
	write *event
	error *event

	registered bool
}

// newConnection allocates a connection bound to fd on r. It does not
// register with the backend; call register explicitly once the event
// slots are installed.
func newConnection(r *Reactor, fd int) *connection {
	return &connection{reactor: r, fd: fd}
}

// register adds c's fd to the backend for READ interest, and for WRITE
// too if c.write is non-nil, then bumps the reactor's live connection
// counter exactly once.
func (c *connection) register() error {
	interest := InterestRead
	if c.write != nil {
		interest |= InterestWrite
	}
	if err := c.reactor.backend.register(c.fd, interest); err != nil {
		return err
	}
	c.registered = true
	c.reactor.connCount++
	c.reactor.conns[c.fd] = c
	return nil
}

// deregister is the inverse of register.
func (c *connection) deregister() error {
	if !c.registered {
		return nil
	}
	if err := c.reactor.backend.deregister(c.fd); err != nil {
		return err
	}
	c.registered = false
	c.reactor.connCount--
	delete(c.reactor.conns, c.fd)
	return nil
}

// destroyConnection requires c to be deregistered and every event slot to be
// nil or already disarmed/un-posted; it is the caller's job to have
// destroyed those events first.
func destroyConnection(c *connection) {
	if c.registered {
		panic("reactor: destroy of registered connection")
	}
}

// scheduleClose implements the close-via-timer pattern: tearing a
// connection down from inside an event handler that may still be
// traversing kernel state is unsafe, so close is deferred to a 1ms
// timer. On failure the timer simply re-arms for another 1ms.
func (c *connection) scheduleClose() {
	var closeEvent *event
	closeEvent = newEvent(func(e *event) {
		if err := c.deregister(); err != nil && err != ErrNotRegistered {
			c.reactor.arm(closeEvent, 1)
			return
		}
		if err := shutdownFd(c.fd, shutdownBoth); err != nil {
			c.reactor.log.Debug().Int("fd", c.fd).Err(err).Msg("shutdown failed during scheduled close")
		}
		if err := closeFd(c.fd); err != nil {
			c.reactor.log.Debug().Int("fd", c.fd).Err(err).Msg("close failed during scheduled close")
		}
		destroyConnection(c)
	}, nil)
	c.reactor.arm(closeEvent, 1)
}

// Connection is the exported handle an application-level connection
// handler — an external collaborator to this package's core — receives
// once a new connection has been accepted and is about to be
// registered. It hides the internal event-queue bookkeeping behind
// three setters and a scheduled-close operation.
type Connection struct {
	c *connection
}

// EventHandler is the application-level callback signature: it is
// simpler than the internal Handler (no raw event pointer) because
// application code only ever needs the Connection its event fired on.
type EventHandler func(Connection)

// Fd returns the underlying file descriptor.
func (conn Connection) Fd() int { return conn.c.fd }

// SetReadHandler installs h to run whenever the connection's fd
// becomes readable.
func (conn Connection) SetReadHandler(h EventHandler) {
	conn.c.read = newEvent(func(e *event) { h(conn) }, nil)
}

// SetWriteHandler installs h to run whenever the connection's fd
// becomes writable. Installing a write handler also requests WRITE
// interest the next time the connection is (re)registered.
func (conn Connection) SetWriteHandler(h EventHandler) {
	conn.c.write = newEvent(func(e *event) { h(conn) }, nil)
}

// SetErrorHandler installs h to run when the backend reports an error
// or hangup condition on the connection's fd.
func (conn Connection) SetErrorHandler(h EventHandler) {
	conn.c.error = newEvent(func(e *event) { h(conn) }, nil)
}

// ScheduleClose defers shutdown+close to a 1ms timer, per the
// close-via-timer pattern.
func (conn Connection) ScheduleClose() { conn.c.scheduleClose() }
