package reactor

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Master owns the listening socket and the accept path. When pool is
// non-nil, accepted fds are handed off to a worker round-robin; when
// pool is nil, the master registers the connection on itself, which is
// also how a single-reactor, no-worker-pool deployment runs.
type Master struct {
	Reactor *Reactor
	pool    *WorkerPool

	listenFd int
	log      zerolog.Logger
}

// NewMaster binds endpoint, starts listening with the given backlog,
// and constructs the master's own reactor. If pool is non-nil it is
// stashed in the reactor's opaque data slot.
func NewMaster(endpoint string, backlog int, pool *WorkerPool, log zerolog.Logger) (*Master, error) {
	kind := LoopPerpetual
	if pool == nil {
		kind = LoopExitWhenIdle
	}

	r, err := NewReactor(kind, backlog, log.With().Str("role", "master").Logger())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFatalSetup, err)
	}

	fd, err := socketBind("tcp", endpoint)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("%w: bind %s: %v", ErrFatalSetup, endpoint, err)
	}
	if err := listenFd(fd, backlog); err != nil {
		closeFd(fd)
		_ = r.Close()
		return nil, fmt.Errorf("%w: listen %s: %v", ErrFatalSetup, endpoint, err)
	}
	if err := socketNonblocking(fd); err != nil {
		closeFd(fd)
		_ = r.Close()
		return nil, fmt.Errorf("%w: nonblocking %s: %v", ErrFatalSetup, endpoint, err)
	}

	m := &Master{Reactor: r, pool: pool, listenFd: fd, log: log}
	r.data = pool

	listenConn := newConnection(r, fd)
	listenConn.read = newEvent(func(e *event) { m.acceptLoop() }, nil)
	listenConn.error = newEvent(func(e *event) {
		m.log.Error().Int("fd", fd).Msg("listening socket error event")
	}, nil)
	if err := listenConn.register(); err != nil {
		closeFd(fd)
		_ = r.Close()
		return nil, fmt.Errorf("%w: register listener: %v", ErrFatalSetup, err)
	}

	return m, nil
}

// acceptLoop accepts in a loop until EAGAIN/EWOULDBLOCK, setting each
// accepted fd non-blocking (acceptFd already does this), and hands it
// off to the worker pool or registers it locally.
func (m *Master) acceptLoop() {
	count := 0
	for {
		fd, err := acceptFd(m.listenFd)
		if err != nil {
			if count == 0 {
				m.log.Debug().Err(err).Msg("accept: no more pending connections")
			}
			if isResourceExhaustion(err) {
				m.log.Warn().Err(err).Msg("accept: resource exhaustion, pausing accept loop")
			}
			break
		}
		count++
		m.postAccepted(fd)
	}
}

// postAccepted routes one freshly-accepted fd to a worker (round-robin
// via the hand-off queue) or, with no pool, registers it directly on
// the master's own reactor.
func (m *Master) postAccepted(fd int) {
	if m.pool == nil {
		conn := newConnection(m.Reactor, fd)
		if OnAccept != nil {
			OnAccept(Connection{c: conn})
		}
		if err := conn.register(); err != nil {
			m.log.Error().Int("fd", fd).Err(err).Msg("failed to register locally-accepted connection")
			_ = closeFd(fd)
		}
		return
	}
	m.pool.Dispatch(fd)
}

// Run drives the master's own reactor loop. For an exit-when-idle
// master (no pool) this returns once all connections close and no
// events remain; for a perpetual master it returns only once Stop has
// been called (typically from a signal handler installed by the
// caller, outside this package's scope).
func (m *Master) Run() {
	m.Reactor.Run()
}

// Shutdown stops the master's reactor, then — if a pool is attached —
// shuts the pool down. Ordering matters here: accept must stop before
// workers are freed so no producer races a freed worker. Only a
// perpetual master (one with a pool) observes the stop request; an
// exit-when-idle master's Run ignores it and keeps accepting.
func (m *Master) Shutdown() {
	m.Reactor.Stop()
	if m.pool != nil {
		m.pool.Shutdown()
	}
}
