//go:build linux

package reactor

import (
	"golang.org/x/sys/unix"
)

// epollBackend implements ioBackend on Linux with epoll(7), exposing a
// synchronous register/modify/deregister/wait contract rather than an
// inline-callback dispatch style.
type epollBackend struct {
	epfd   int
	events []unix.EpollEvent
}

func newIOBackend(hintMaxFDs int) (ioBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	if hintMaxFDs <= 0 || hintMaxFDs > 4096 {
		hintMaxFDs = 256
	}
	return &epollBackend{epfd: epfd, events: make([]unix.EpollEvent, hintMaxFDs)}, nil
}

func toEpollMask(interest Interest) uint32 {
	var mask uint32 = unix.EPOLLRDHUP
	if interest&InterestRead != 0 {
		mask |= unix.EPOLLIN
	}
	if interest&InterestWrite != 0 {
		mask |= unix.EPOLLOUT
	}
	return mask
}

func (b *epollBackend) register(fd int, interest Interest) error {
	ev := unix.EpollEvent{Events: toEpollMask(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		if err == unix.EEXIST {
			return ErrAlreadyRegistered
		}
		return ErrBackendError
	}
	return nil
}

func (b *epollBackend) modify(fd int, interest Interest) error {
	ev := unix.EpollEvent{Events: toEpollMask(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		if err == unix.ENOENT {
			return ErrNotRegistered
		}
		return ErrBackendError
	}
	return nil
}

func (b *epollBackend) deregister(fd int) error {
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		if err == unix.ENOENT {
			return ErrNotRegistered
		}
		return ErrBackendError
	}
	return nil
}

func (b *epollBackend) wait(timeoutMs int) ([]ReadyEvent, error) {
	for {
		n, err := unix.EpollWait(b.epfd, b.events, timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, ErrBackendError
		}

		out := make([]ReadyEvent, 0, n)
		for i := 0; i < n; i++ {
			ev := b.events[i]
			var r ReadyEvent
			r.Fd = int(ev.Fd)
			if ev.Events&unix.EPOLLIN != 0 {
				r.Ready |= InterestRead
			}
			if ev.Events&unix.EPOLLOUT != 0 {
				r.Ready |= InterestWrite
			}
			if ev.Events&(unix.EPOLLERR|unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
				r.Error = true
			}
			out = append(out, r)
		}
		return out, nil
	}
}

func (b *epollBackend) close() error {
	return unix.Close(b.epfd)
}
