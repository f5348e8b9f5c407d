//go:build linux

package reactor

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// wakeSource is the backing primitive for the reactor's wake fd: a
// single eventfd serves as both the fd registered with the backend and
// the handle producers write to.
type wakeSource struct {
	fd int
}

func newWakeSource() (*wakeSource, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &wakeSource{fd: fd}, nil
}

// readFd is the fd registered with the backend for READ interest.
func (w *wakeSource) readFd() int { return w.fd }

// signal writes one unit to the eventfd, waking a blocked Wait.
func (w *wakeSource) signal() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(w.fd, buf[:])
	if err == unix.EAGAIN {
		// counter already non-zero: a pending wake is enough, coalesce.
		return nil
	}
	return err
}

// drain consumes any pending wake units so the fd goes back to
// non-readable. N pending writes coalesce into at most one drain.
func (w *wakeSource) drain() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *wakeSource) close() error {
	return unix.Close(w.fd)
}
