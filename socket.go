//go:build linux || darwin || netbsd || freebsd || openbsd || dragonfly

package reactor

import (
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// shutdownMode selects which half of a connection shutdownFd
// closes, mirroring the POSIX shutdown(2) modes.
type shutdownMode int

const (
	shutdownRead shutdownMode = iota
	shutdownWrite
	shutdownBoth
)

// socketBind parses a "host:port" endpoint, creates a TCP socket, and
// binds it. The socket is left in blocking mode; socketNonblocking
// switches it. Only "tcp" is supported — no UDP, no Unix sockets.
func socketBind(proto, endpoint string) (int, error) {
	if proto != "tcp" {
		return -1, fmt.Errorf("reactor: unsupported proto %q", proto)
	}

	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return -1, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return -1, err
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, err
	}

	var addr unix.SockaddrInet4
	addr.Port = port
	if host == "" || host == "0.0.0.0" {
		// zero address: bind all interfaces
	} else {
		ip := net.ParseIP(host).To4()
		if ip == nil {
			unix.Close(fd)
			return -1, fmt.Errorf("reactor: invalid ipv4 host %q", host)
		}
		copy(addr.Addr[:], ip)
	}

	if err := unix.Bind(fd, &addr); err != nil {
		unix.Close(fd)
		return -1, err
	}

	return fd, nil
}

// socketNonblocking sets fd non-blocking.
func socketNonblocking(fd int) error {
	return unix.SetNonblock(fd, true)
}

// listenFd puts fd into the listening state with the given backlog.
func listenFd(fd, backlog int) error {
	return unix.Listen(fd, backlog)
}

// acceptFd accepts one connection from the listening fd, returning the
// new fd already set non-blocking where the platform supports
// accept4(2), falling back to a separate SetNonblock call otherwise.
func acceptFd(listenFd int) (int, error) {
	nfd, _, err := unix.Accept4(listenFd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err == unix.ENOSYS {
		var sa unix.Sockaddr
		nfd, sa, err = unix.Accept(listenFd)
		_ = sa
		if err != nil {
			return -1, err
		}
		if err := socketNonblocking(nfd); err != nil {
			unix.Close(nfd)
			return -1, err
		}
		return nfd, nil
	}
	if err != nil {
		return -1, err
	}
	return nfd, nil
}

// shutdownFd performs shutdown(2) with mode translated to the POSIX
// SHUT_RD/SHUT_WR/SHUT_RDWR constant.
func shutdownFd(fd int, mode shutdownMode) error {
	var how int
	switch mode {
	case shutdownRead:
		how = unix.SHUT_RD
	case shutdownWrite:
		how = unix.SHUT_WR
	default:
		how = unix.SHUT_RDWR
	}
	return unix.Shutdown(fd, how)
}

// closeFd closes fd.
func closeFd(fd int) error {
	return unix.Close(fd)
}

// isResourceExhaustion reports whether err is the accept(2) signature
// of fd-table exhaustion (EMFILE/ENFILE): the accept loop breaks
// without aborting, admission control being out of scope.
func isResourceExhaustion(err error) bool {
	return err == unix.EMFILE || err == unix.ENFILE
}
