// Package netio implements the nonblocking UDP socket shared by the probe
// and the reflector: one file descriptor, opened O_NONBLOCK, with a single
// combined readiness wait for both read and write interest. This mirrors
// the original engine's use of pselect() over one socket rather than
// Go's net.UDPConn deadline model, which has no equivalent of "tell me
// as soon as either direction is ready."
package netio

import (
	"errors"
	"net/netip"
)

// ErrWouldBlock is returned by SendTo and RecvFrom when the socket has no data
// ready and the call did not block, matching EAGAIN/EWOULDBLOCK on the
// underlying nonblocking descriptor.
var ErrWouldBlock = errors.New("netio: operation would block")

// Ready reports which directions Wait found ready on the socket.
type Ready struct {
	Readable bool
	Writable bool
}

// Socket is a nonblocking UDP socket. Implementations are platform-gated
// (socket_unix.go for Linux/Darwin via golang.org/x/sys/unix, a stub on
// unsupported platforms).
type Socket interface {
	// SendTo writes payload to addr. It returns ErrWouldBlock if the
	// socket's send buffer is currently full.
	SendTo(payload []byte, addr netip.AddrPort) error

	// RecvFrom reads one datagram into buf. It returns ErrWouldBlock if no
	// datagram is currently queued.
	RecvFrom(buf []byte) (n int, from netip.AddrPort, err error)

	// Wait blocks until the socket is readable, or — when awaitWritable is
	// true — readable or writable, or stdin has input ready when
	// watchStdin is true, or timeoutMillis elapses (a negative value waits
	// forever; zero returns at once). It reports which condition(s), if any, became ready;
	// all fields false means the wait timed out.
	Wait(awaitWritable, watchStdin bool, timeoutMillis int) (socket Ready, stdinReady bool, err error)

	// LocalAddr reports the address and port the socket is bound to,
	// resolving the ephemeral port chosen by the kernel when the socket
	// was opened with port 0.
	LocalAddr() (netip.AddrPort, error)

	// Close releases the underlying descriptor.
	Close() error
}
