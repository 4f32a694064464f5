package probeengine

import (
	"net/netip"
	"testing"

	"github.com/nslatency/mig/internal/domainenc"
	"github.com/nslatency/mig/internal/logging"
	"github.com/nslatency/mig/internal/netio"
	"github.com/nslatency/mig/internal/wire"
)

// echoSocket is an in-memory netio.Socket that answers every sent query
// immediately with a matching-id canned reply, letting engine_test drive
// Run's full send/receive/drain cycle without real sockets or timers.
type echoSocket struct {
	inbox [][]byte
	sent  [][]byte
}

func (s *echoSocket) SendTo(payload []byte, _ netip.AddrPort) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.sent = append(s.sent, cp)

	header, err := wire.ParseHeader(payload)
	if err != nil {
		return err
	}
	answer := wire.BuildHeader(nil, wire.Header{ID: header.ID, Flags: 0x8580, QDCount: 1, ANCount: 1})
	s.inbox = append(s.inbox, answer)
	return nil
}

func (s *echoSocket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	if len(s.inbox) == 0 {
		return 0, netip.AddrPort{}, netio.ErrWouldBlock
	}
	d := s.inbox[0]
	s.inbox = s.inbox[1:]
	n := copy(buf, d)
	return n, netip.AddrPort{}, nil
}

func (s *echoSocket) Wait(awaitWritable, watchStdin bool, timeoutMillis int) (netio.Ready, bool, error) {
	return netio.Ready{Readable: len(s.inbox) > 0, Writable: true}, false, nil
}

func (s *echoSocket) LocalAddr() (netip.AddrPort, error) { return netip.AddrPort{}, nil }
func (s *echoSocket) Close() error                       { return nil }

func TestRun_SendsAndCorrelatesEveryQuery(t *testing.T) {
	names, err := domainenc.Parse([]byte("a.com\nb.com\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	batch := BuildBatch(names, 5, nil)

	sock := &echoSocket{}
	server := netip.MustParseAddrPort("198.51.100.1:53")
	log := logging.New(discardWriter{}, discardWriter{})

	result, err := Run(sock, server, batch, 0, false, log)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(sock.sent) != 5 {
		t.Fatalf("sent %d queries, want 5", len(sock.sent))
	}
	if len(result.Sends) != 5 {
		t.Errorf("Sends has %d entries, want 5", len(result.Sends))
	}
	if len(result.Receives) != 5 {
		t.Errorf("Receives has %d entries, want 5", len(result.Receives))
	}
	answered := 0
	for _, p := range result.Pairs {
		if p.Answered {
			answered++
		}
	}
	if answered != 5 {
		t.Errorf("%d pairs answered, want 5", answered)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
