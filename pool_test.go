package reactor

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// TestWorkerPoolRoundRobinDispatch verifies that fds handed to a pool
// of N workers are distributed round-robin, each landing on the worker
// the formula predicts, confirmed by observing which worker's hook
// actually ran.
func TestWorkerPoolRoundRobinDispatch(t *testing.T) {
	prevOnAccept := OnAccept
	defer func() { OnAccept = prevOnAccept }()

	const n = 3
	p, err := NewWorkerPool(n, 16, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}
	defer p.Shutdown()

	// Workers run their hooks on their own goroutines, so hooks may
	// arrive in any order; each one is matched to its dispatch by fd.
	type landing struct {
		fd int
		r  *Reactor
	}
	landed := make(chan landing, 2*n)
	OnAccept = func(c Connection) {
		landed <- landing{fd: c.Fd(), r: c.c.reactor}
	}

	var dispatched []int
	var toClose []int
	dispatchOne := func() {
		fds, perr := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
		if perr != nil {
			t.Fatalf("Socketpair: %v", perr)
		}
		if err := socketNonblocking(fds[0]); err != nil {
			t.Fatalf("socketNonblocking: %v", err)
		}
		toClose = append(toClose, fds[0], fds[1])
		dispatched = append(dispatched, fds[0])
		p.Dispatch(fds[0])
	}
	defer func() {
		for _, fd := range toClose {
			_ = unix.Close(fd)
		}
	}()

	want := []int{1, 2, 0, 1, 2, 0}
	for i := 0; i < len(want); i++ {
		dispatchOne()
	}

	wantFor := make(map[int]int, len(want))
	for i, fd := range dispatched {
		wantFor[fd] = want[i]
	}

	for i := range want {
		select {
		case l := <-landed:
			wantIdx, ok := wantFor[l.fd]
			if !ok {
				t.Fatalf("hook ran for fd %d, which was never dispatched", l.fd)
			}
			delete(wantFor, l.fd)
			if l.r != p.workers[wantIdx] {
				t.Fatalf("fd %d landed on the wrong worker (want index %d)", l.fd, wantIdx)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("dispatch %d: hook never ran", i)
		}
	}
}

func TestWorkerPoolLen(t *testing.T) {
	p, err := NewWorkerPool(4, 16, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}
	defer p.Shutdown()

	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", p.Len())
	}
}
