//go:build darwin || netbsd || freebsd || openbsd || dragonfly

package reactor

import "golang.org/x/sys/unix"

// wakeSource backs the reactor's wake fd with a non-blocking pipe(2)
// pair on kqueue platforms, which have no eventfd equivalent.
type wakeSource struct {
	readFdN, writeFdN int
}

func newWakeSource() (*wakeSource, error) {
	fds := make([]int, 2)
	if err := unix.Pipe2(fds, unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, err
	}
	return &wakeSource{readFdN: fds[0], writeFdN: fds[1]}, nil
}

func (w *wakeSource) readFd() int { return w.readFdN }

func (w *wakeSource) signal() error {
	_, err := unix.Write(w.writeFdN, []byte{1})
	if err == unix.EAGAIN {
		// pipe buffer already has a pending byte; one is enough to wake.
		return nil
	}
	return err
}

func (w *wakeSource) drain() {
	var buf [64]byte
	for {
		_, err := unix.Read(w.readFdN, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeSource) close() error {
	_ = unix.Close(w.writeFdN)
	return unix.Close(w.readFdN)
}
