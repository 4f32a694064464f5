//go:build windows

package netio

import (
	"net/netip"

	"github.com/nslatency/mig/internal/errors"
)

// windowsSocket is a stub: the combined-readiness poll loop this package
// exists to provide has no Windows equivalent using only
// golang.org/x/sys, and the original engine itself only ever built against
// pselect(). Wiring a real Windows backend — IOCP or WSAPoll — is future
// work, not attempted here.
type windowsSocket struct{}

func OpenUnconnected() (Socket, error) {
	return nil, unsupported("open unconnected socket")
}

func OpenBound(_ netip.AddrPort) (Socket, error) {
	return nil, unsupported("open bound socket")
}

func unsupported(op string) error {
	return &errors.NetworkError{
		Operation: op,
		Details:   "netio has no Windows backend",
	}
}

func (windowsSocket) SendTo(_ []byte, _ netip.AddrPort) error {
	return unsupported("sendto")
}

func (windowsSocket) RecvFrom(_ []byte) (int, netip.AddrPort, error) {
	return 0, netip.AddrPort{}, unsupported("recvfrom")
}

func (windowsSocket) Wait(_, _ bool, _ int) (Ready, bool, error) {
	return Ready{}, false, unsupported("poll")
}

func (windowsSocket) LocalAddr() (netip.AddrPort, error) {
	return netip.AddrPort{}, unsupported("getsockname")
}

func (windowsSocket) Close() error {
	return nil
}

// SetStdinNonblocking always fails with an unsupported-platform
// NetworkError: there is no Windows backend for the combined-readiness
// poll loop this package provides.
func SetStdinNonblocking() error {
	return unsupported("set stdin nonblocking")
}
