//go:build linux || darwin || netbsd || freebsd || openbsd || dragonfly

package reactor

import "golang.org/x/sys/unix"

// ReadNonblock performs one non-blocking read(2) on fd into buf. It
// retries internally on EINTR and reports EAGAIN/EWOULDBLOCK as
// (0, false, nil) — "no data right now", not an error. A zero-byte,
// no-error read is reported as (0, true, nil) with eof=true so callers
// can run their peer-closed path.
func ReadNonblock(fd int, buf []byte) (n int, eof bool, err error) {
	for {
		n, err = unix.Read(fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		if n == 0 {
			return 0, true, nil
		}
		return n, false, nil
	}
}

// WriteNonblock performs one non-blocking write(2) of buf to fd,
// retrying internally on EINTR and reporting EAGAIN as (0, nil) —
// "try again once writable", not an error.
func WriteNonblock(fd int, buf []byte) (n int, err error) {
	for {
		n, err = unix.Write(fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, nil
		}
		return n, err
	}
}
