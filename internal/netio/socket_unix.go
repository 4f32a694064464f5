//go:build linux || darwin

package netio

import (
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/nslatency/mig/internal/errors"
)

// unixSocket is the Linux/Darwin Socket implementation: a raw AF_INET
// SOCK_DGRAM descriptor opened nonblocking, polled with unix.Poll.
type unixSocket struct {
	fd int
}

// OpenUnconnected opens a nonblocking IPv4 UDP socket with no bind and no
// connect, suitable for the probe's client role: the kernel assigns an
// ephemeral source port on the first sendto.
func OpenUnconnected() (Socket, error) {
	fd, err := open()
	if err != nil {
		return nil, err
	}
	return &unixSocket{fd: fd}, nil
}

// OpenBound opens a nonblocking IPv4 UDP socket bound to addr with
// SO_REUSEADDR set, suitable for the reflector's server role.
func OpenBound(addr netip.AddrPort) (Socket, error) {
	fd, err := open()
	if err != nil {
		return nil, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, &errors.NetworkError{Operation: "set SO_REUSEADDR", Err: err}
	}

	sa := &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, &errors.NetworkError{Operation: "bind socket", Err: err}
	}

	return &unixSocket{fd: fd}, nil
}

// open creates a nonblocking AF_INET/SOCK_DGRAM descriptor, unbound and
// unconnected.
func open() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return -1, &errors.NetworkError{Operation: "open socket", Err: err}
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, &errors.NetworkError{Operation: "set nonblocking", Err: err}
	}

	return fd, nil
}

func (s *unixSocket) SendTo(payload []byte, addr netip.AddrPort) error {
	dst := &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}

	err := unix.Sendto(s.fd, payload, 0, dst)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return ErrWouldBlock
	}
	if err != nil {
		return &errors.NetworkError{Operation: "sendto", Err: err}
	}
	return nil
}

func (s *unixSocket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	n, from, err := unix.Recvfrom(s.fd, buf, 0)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return 0, netip.AddrPort{}, ErrWouldBlock
	}
	if err != nil {
		return 0, netip.AddrPort{}, &errors.NetworkError{Operation: "recvfrom", Err: err}
	}

	fromInet4, ok := from.(*unix.SockaddrInet4)
	if !ok {
		return 0, netip.AddrPort{}, &errors.NetworkError{
			Operation: "recvfrom",
			Details:   "peer address was not IPv4",
		}
	}

	peer := netip.AddrPortFrom(netip.AddrFrom4(fromInet4.Addr), uint16(fromInet4.Port))
	return n, peer, nil
}

func (s *unixSocket) Wait(awaitWritable, watchStdin bool, timeoutMillis int) (Ready, bool, error) {
	events := int16(unix.POLLIN)
	if awaitWritable {
		events |= unix.POLLOUT
	}

	fds := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
	stdinIndex := -1
	if watchStdin {
		fds = append(fds, unix.PollFd{Fd: 0, Events: unix.POLLIN})
		stdinIndex = 1
	}

	n, err := unix.Poll(fds, timeoutMillis)
	if err == unix.EINTR {
		return Ready{}, false, nil
	}
	if err != nil {
		return Ready{}, false, &errors.NetworkError{Operation: "poll", Err: err}
	}
	if n == 0 {
		return Ready{}, false, nil
	}

	ready := Ready{
		Readable: fds[0].Revents&unix.POLLIN != 0,
		Writable: fds[0].Revents&unix.POLLOUT != 0,
	}
	stdinReady := stdinIndex >= 0 && fds[stdinIndex].Revents&unix.POLLIN != 0

	return ready, stdinReady, nil
}

func (s *unixSocket) LocalAddr() (netip.AddrPort, error) {
	return getsockname(s.fd)
}

func getsockname(fd int) (netip.AddrPort, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return netip.AddrPort{}, &errors.NetworkError{Operation: "getsockname", Err: err}
	}

	inet4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return netip.AddrPort{}, &errors.NetworkError{
			Operation: "getsockname",
			Details:   "socket is not bound to an IPv4 address",
		}
	}

	return netip.AddrPortFrom(netip.AddrFrom4(inet4.Addr), uint16(inet4.Port)), nil
}

func (s *unixSocket) Close() error {
	return unix.Close(s.fd)
}

// SetStdinNonblocking puts file descriptor 0 in nonblocking mode, matching
// the original reflector's treatment of stdin as just another descriptor
// in its pselect() set.
func SetStdinNonblocking() error {
	if err := unix.SetNonblock(0, true); err != nil {
		return &errors.NetworkError{Operation: "set stdin nonblocking", Err: err}
	}
	return nil
}
