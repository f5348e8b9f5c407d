//go:build darwin || netbsd || freebsd || openbsd || dragonfly

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// kqueueBackend implements ioBackend on BSD-family kernels with
// kqueue(2) — read and write interest are independent kevent filters
// here rather than a single combined mask, since kqueue has no notion
// of a merged read/write flag the way epoll does.
type kqueueBackend struct {
	kq       int
	events   []unix.Kevent_t
	readSet  map[int]bool
	writeSet map[int]bool
}

func newIOBackend(hintMaxFDs int) (ioBackend, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	if hintMaxFDs <= 0 || hintMaxFDs > 4096 {
		hintMaxFDs = 256
	}
	return &kqueueBackend{
		kq:       kq,
		events:   make([]unix.Kevent_t, hintMaxFDs),
		readSet:  make(map[int]bool),
		writeSet: make(map[int]bool),
	}, nil
}

func (b *kqueueBackend) applyFilter(fd int, filter int16, add bool) error {
	flags := uint16(unix.EV_DELETE)
	if add {
		flags = unix.EV_ADD | unix.EV_ENABLE
	}
	changes := []unix.Kevent_t{{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}}
	_, err := unix.Kevent(b.kq, changes, nil, nil)
	return err
}

func (b *kqueueBackend) register(fd int, interest Interest) error {
	if b.readSet[fd] || b.writeSet[fd] {
		return ErrAlreadyRegistered
	}
	if interest&InterestRead != 0 {
		if err := b.applyFilter(fd, unix.EVFILT_READ, true); err != nil {
			return ErrBackendError
		}
		b.readSet[fd] = true
	}
	if interest&InterestWrite != 0 {
		if err := b.applyFilter(fd, unix.EVFILT_WRITE, true); err != nil {
			return ErrBackendError
		}
		b.writeSet[fd] = true
	}
	return nil
}

func (b *kqueueBackend) modify(fd int, interest Interest) error {
	if !b.readSet[fd] && !b.writeSet[fd] {
		return ErrNotRegistered
	}
	wantRead := interest&InterestRead != 0
	wantWrite := interest&InterestWrite != 0

	if wantRead && !b.readSet[fd] {
		if err := b.applyFilter(fd, unix.EVFILT_READ, true); err != nil {
			return ErrBackendError
		}
		b.readSet[fd] = true
	} else if !wantRead && b.readSet[fd] {
		_ = b.applyFilter(fd, unix.EVFILT_READ, false)
		delete(b.readSet, fd)
	}

	if wantWrite && !b.writeSet[fd] {
		if err := b.applyFilter(fd, unix.EVFILT_WRITE, true); err != nil {
			return ErrBackendError
		}
		b.writeSet[fd] = true
	} else if !wantWrite && b.writeSet[fd] {
		_ = b.applyFilter(fd, unix.EVFILT_WRITE, false)
		delete(b.writeSet, fd)
	}
	return nil
}

func (b *kqueueBackend) deregister(fd int) error {
	if !b.readSet[fd] && !b.writeSet[fd] {
		return ErrNotRegistered
	}
	if b.readSet[fd] {
		_ = b.applyFilter(fd, unix.EVFILT_READ, false)
		delete(b.readSet, fd)
	}
	if b.writeSet[fd] {
		_ = b.applyFilter(fd, unix.EVFILT_WRITE, false)
		delete(b.writeSet, fd)
	}
	return nil
}

func (b *kqueueBackend) wait(timeoutMs int) ([]ReadyEvent, error) {
	var ts unix.Timespec
	tsPtr := &ts
	if timeoutMs < 0 {
		tsPtr = nil
	} else {
		d := time.Duration(timeoutMs) * time.Millisecond
		ts = unix.NsecToTimespec(d.Nanoseconds())
	}

	for {
		n, err := unix.Kevent(b.kq, nil, b.events, tsPtr)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, ErrBackendError
		}

		merged := make(map[int]*ReadyEvent, n)
		order := make([]int, 0, n)
		for i := 0; i < n; i++ {
			ev := b.events[i]
			fd := int(ev.Ident)
			r, ok := merged[fd]
			if !ok {
				r = &ReadyEvent{Fd: fd}
				merged[fd] = r
				order = append(order, fd)
			}
			switch ev.Filter {
			case unix.EVFILT_READ:
				r.Ready |= InterestRead
			case unix.EVFILT_WRITE:
				r.Ready |= InterestWrite
			}
			if ev.Flags&(unix.EV_ERROR|unix.EV_EOF) != 0 {
				r.Error = true
			}
		}

		out := make([]ReadyEvent, 0, len(order))
		for _, fd := range order {
			out = append(out, *merged[fd])
		}
		return out, nil
	}
}

func (b *kqueueBackend) close() error {
	return unix.Close(b.kq)
}
