// Package reflectorengine implements the reflector's request/response
// loop: drain incoming queries off the socket, synthesize an answer for
// each per internal/wire's classification rules, spool answers that can't
// be sent immediately, drain the spool when the socket is writable again,
// and watch stdin for an operator stop request and an out-of-band signal
// for a one-shot timestamp dump.
package reflectorengine

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/nslatency/mig/internal/clock"
	"github.com/nslatency/mig/internal/errors"
	"github.com/nslatency/mig/internal/logging"
	"github.com/nslatency/mig/internal/netio"
	"github.com/nslatency/mig/internal/ring"
	"github.com/nslatency/mig/internal/wire"
)

// spoolCapacity is the spool queue's byte capacity, matching the original
// reflector's fixed 100 MiB send queue.
const spoolCapacity = 100 * 1024 * 1024

// maxTimestamps bounds how many send/receive timestamps are retained for
// the dump file, matching the original tool's TIMESTAMPS_MAXLENGTH. Once
// reached, further requests are still answered but go unrecorded.
const maxTimestamps = 10_000_000

// waitTimeoutMillis is the readiness wait's timeout, matching the
// original 1-second pselect timeout.
const waitTimeoutMillis = 1000

// stopCharacter on stdin requests a clean shutdown, matching the original
// tool's operator interface.
const stopCharacter = 's'

// Dumper writes the reflector's current send/receive timestamps to the
// configured output path, invoked once per requested dump.
type Dumper func(receives, sends []clock.Timestamp) error

// Engine runs the reflector's main loop.
type Engine struct {
	sock netio.Socket
	log  *logging.Logger

	spool *ring.Queue

	dump      Dumper
	dumpFlag  atomic.Bool
	receives  []clock.Timestamp
	sends     []clock.Timestamp
	trackTime bool
}

// New constructs an Engine. dump may be nil when no output file was
// configured, in which case timestamps are never retained and a dump
// request is a no-op.
func New(sock netio.Socket, log *logging.Logger, dump Dumper) (*Engine, error) {
	spool, err := ring.New(spoolCapacity)
	if err != nil {
		return nil, err
	}

	return &Engine{
		sock:      sock,
		log:       log,
		spool:     spool,
		dump:      dump,
		trackTime: dump != nil,
	}, nil
}

// RequestDump arranges for the next loop tick to write out accumulated
// timestamps and reset its counters, matching the original SIGINFO/SIGUSR1
// handler: the signal only sets a flag, all file I/O happens on the main
// path.
func (e *Engine) RequestDump() {
	e.dumpFlag.Store(true)
}

// Run drives the main loop until the operator requests a stop (returns
// errors.ErrOperatorStop, not a failure) or a fatal I/O error occurs.
func (e *Engine) Run(watchStdin bool) error {
	if watchStdin {
		if err := netio.SetStdinNonblocking(); err != nil {
			return err
		}
	}

	bufPtr := netio.GetBuffer()
	defer netio.PutBuffer(bufPtr)
	recvBuf := *bufPtr
	messagesReceived := 0

	for {
		if e.dumpFlag.CompareAndSwap(true, false) {
			if err := e.runDump(); err != nil {
				return err
			}
		}

		awaitWritable := !e.spool.Empty()
		ready, stdinReady, err := e.sock.Wait(awaitWritable, watchStdin, waitTimeoutMillis)
		if err != nil {
			return err
		}

		if !ready.Readable && !ready.Writable && !stdinReady {
			if messagesReceived > 0 {
				e.log.Info("Got %d message(s).", messagesReceived)
				messagesReceived = 0
			}
			continue
		}

		if ready.Readable {
			n, err := e.recvAll(recvBuf)
			if err != nil {
				return err
			}
			messagesReceived += n
		}

		if stdinReady {
			stop, err := checkStopCharacter()
			if err != nil {
				return err
			}
			if stop {
				e.log.Info("Stop character received.")
				return errors.ErrOperatorStop
			}
		}

		if ready.Writable {
			if err := e.sendAll(); err != nil {
				return err
			}
		}
	}
}

// recvAll drains every datagram currently queued on the socket,
// synthesizing and spooling an answer for each.
func (e *Engine) recvAll(buf []byte) (int, error) {
	count := 0

	for {
		n, from, err := e.sock.RecvFrom(buf)
		if err == netio.ErrWouldBlock {
			return count, nil
		}
		if err != nil {
			return count, err
		}

		answer, err := e.buildAnswer(buf[:n])
		if err != nil {
			e.log.Error("Dropped malformed query from %s: %v", from, err)
			continue
		}

		if err := e.spool.Push(ring.Entry{Addr: from, Payload: answer}); err != nil {
			return count, &errors.ResourceError{
				Operation: "push reflected answer to spool queue",
				Err:       err,
			}
		}

		count++
		if e.trackTime && len(e.receives) < maxTimestamps {
			now, err := clock.Now()
			if err != nil {
				return count, err
			}
			e.receives = append(e.receives, now)
		}
	}
}

func (e *Engine) buildAnswer(query []byte) ([]byte, error) {
	answer, err := wire.ClassifyQuery(query)
	if err != nil {
		return nil, err
	}
	if !answer {
		return wire.RefuseQuery(query), nil
	}
	return wire.AnswerQuery(query)
}

// sendAll drains the spool queue until it is empty or the socket would
// block. The head entry is only removed once its send has actually
// succeeded — on ErrWouldBlock it is left in place so the next writable
// tick retries the same entry, matching the original engine's queue
// (whose head pointer only advanced after a confirmed send).
func (e *Engine) sendAll() error {
	for {
		entry, ok := e.spool.Peek()
		if !ok {
			return nil
		}

		if err := e.sock.SendTo(entry.Payload, entry.Addr); err != nil {
			if err == netio.ErrWouldBlock {
				return nil
			}
			return err
		}
		e.spool.Advance()

		if e.trackTime && len(e.sends) < maxTimestamps {
			now, err := clock.Now()
			if err != nil {
				return err
			}
			e.sends = append(e.sends, now)
		}
	}
}

// runDump writes the currently accumulated timestamps and resets the
// counters, matching the original SIGINFO/SIGUSR1 handler's effect of
// dumping and then starting a fresh accumulation window. A nil Dumper
// (no output file configured) makes this a no-op.
func (e *Engine) runDump() error {
	if e.dump == nil {
		return nil
	}

	if err := e.dump(e.receives, e.sends); err != nil {
		return &errors.ResourceError{
			Operation: "write timestamp dump",
			Err:       err,
		}
	}

	e.receives = e.receives[:0]
	e.sends = e.sends[:0]
	return nil
}

// checkStopCharacter reads whatever is currently available on stdin and
// reports whether it contains the operator stop character. Run's caller
// only invokes this after Wait has already confirmed stdin is readable,
// so the read below is expected to return promptly with at least one
// byte.
func checkStopCharacter() (bool, error) {
	buf := make([]byte, 10240)

	n, err := os.Stdin.Read(buf)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}

	for i := 0; i < n; i++ {
		if buf[i] == stopCharacter {
			return true, nil
		}
	}
	return false, nil
}
