package reactor

import (
	"sync"

	"github.com/rs/zerolog"
)

// WorkerPool is a fixed set of worker reactors fed by round-robin
// dispatch from the master. rr is touched only by the master
// goroutine, so it needs no lock.
type WorkerPool struct {
	workers []*Reactor
	wg      sync.WaitGroup
	rr      int

	log zerolog.Logger
}

// NewWorkerPool creates n worker reactors, starts one goroutine per
// worker running its perpetual loop, and blocks until all n have
// completed initialization. hintMaxFDs is forwarded to each worker's
// backend.
func NewWorkerPool(n int, hintMaxFDs int, log zerolog.Logger) (*WorkerPool, error) {
	p := &WorkerPool{
		workers: make([]*Reactor, n),
		log:     log,
	}

	b := newBarrier(n + 1)
	errCh := make(chan error, n)

	for i := 0; i < n; i++ {
		i := i
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			r, err := NewReactor(LoopPerpetual, hintMaxFDs, log.With().Int("worker", i).Logger())
			if err != nil {
				errCh <- err
				b.wait()
				return
			}
			p.workers[i] = r
			errCh <- nil

			b.wait()

			r.Run()
		}()
	}

	b.wait()

	for i := 0; i < n; i++ {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Dispatch hands fd to the next worker in round-robin order via the
// hand-off queue, installing a connection on that worker once its hook
// runs there. Must only be called from the master goroutine.
func (p *WorkerPool) Dispatch(fd int) {
	n := len(p.workers)
	if n == 0 {
		return
	}
	p.rr = (p.rr + 1) % n
	target := p.workers[p.rr]

	wrapped := newEvent(nil, fd)
	safeAdd(target, wrapped, installConnectionHandler)
}

// installConnectionHandler runs on the target worker once its hand-off
// wrapper has been drained and posted. It constructs the connection
// object, installs the application's read/write/error events via
// OnAccept, and registers it with the worker's backend.
func installConnectionHandler(r *Reactor, e *event) {
	fd := e.data.(int)
	conn := newConnection(r, fd)
	if OnAccept != nil {
		OnAccept(Connection{c: conn})
	}
	if err := conn.register(); err != nil {
		r.log.Error().Int("fd", fd).Err(err).Msg("failed to register handed-off connection")
		_ = closeFd(fd)
	}
}

// OnAccept is the application-level hook that installs read/write/
// error events on a freshly accepted connection. It is deliberately a
// package-level seam rather than a WorkerPool field: both the
// single-threaded master (master.go) and every worker need the same
// hook, and the application handler is an external collaborator
// outside the reactor's core. The CLI entry point (cmd/reactord) is
// expected to set this before calling NewMaster.
var OnAccept EventHandler

// Shutdown stops every worker, waking each so a blocked Wait observes
// the stop flag promptly, then waits for all worker goroutines to
// return before closing their backends. The caller (the master) must
// stop accepting new connections before calling Shutdown, so no
// producer races a freed worker.
func (p *WorkerPool) Shutdown() {
	for _, w := range p.workers {
		if w != nil {
			w.Stop()
		}
	}
	p.wg.Wait()
	for _, w := range p.workers {
		if w != nil {
			_ = w.Close()
		}
	}
}

// Len returns the number of workers in the pool.
func (p *WorkerPool) Len() int { return len(p.workers) }
