package probeengine

import (
	"fmt"
	"net/netip"

	"github.com/nslatency/mig/internal/clock"
	"github.com/nslatency/mig/internal/errors"
	"github.com/nslatency/mig/internal/logging"
	"github.com/nslatency/mig/internal/netio"
	"github.com/nslatency/mig/internal/report"
	"github.com/nslatency/mig/internal/wire"
)

// drainAttempts is how many consecutive one-second idle timeouts the
// drain phase tolerates before giving up on the remaining outstanding
// queries, matching the original tool's RECV_TIMEOUT.
const drainAttempts = 35

// waitTimeoutMillis is the readiness wait's timeout during both phases,
// matching the original 1-second pselect/select timeout.
const waitTimeoutMillis = 1000

// Result is everything the probe needs to write its report once the run
// finishes.
type Result struct {
	Sends    []clock.Timestamp
	Receives []clock.Timestamp
	Pairs    []report.Pair
}

// Run drives the probe's send/receive loop to completion: sends every
// query in batch to server (rate-limited to writeInterval nanoseconds
// between sends when writeInterval > 0), correlates answers as they
// arrive, and then drains any answers still outstanding for up to
// drainAttempts idle seconds.
func Run(sock netio.Socket, server netip.AddrPort, batch Batch, writeInterval int64, verbose bool, log *logging.Logger) (Result, error) {
	count := batch.Count()
	sends := make([]clock.Timestamp, 0, count)
	receives := make([]clock.Timestamp, 0, count)
	correlator := NewCorrelator(count)

	bufPtr := netio.GetBuffer()
	defer netio.PutBuffer(bufPtr)
	buf := *bufPtr
	sent := 0
	received := 0
	var lastSent clock.Timestamp

	for sent < count {
		ready, _, err := sock.Wait(true, false, waitTimeoutMillis)
		if err != nil {
			return Result{}, err
		}

		if ready.Readable {
			n, err := drainOnce(sock, buf, correlator, &receives, verbose, log)
			if err != nil {
				return Result{}, err
			}
			received += n
		}

		if ready.Writable {
			doSend := writeInterval <= 0 || sent == 0
			if !doSend {
				now, err := clock.Now()
				if err != nil {
					return Result{}, err
				}
				doSend = now.Sub(lastSent) >= writeInterval
			}

			if doSend {
				query := batch.Query(sent)
				sentAt, ok, err := sendQuery(sock, server, query, verbose, log)
				if err != nil {
					return Result{}, err
				}

				if ok {
					sends = append(sends, sentAt)
					correlator.RecordSent(sent, sentAt)
					sent++
					lastSent = sentAt
				}
			}
		}
	}

	attempts := drainAttempts
	for received < count && attempts > 0 {
		ready, _, err := sock.Wait(false, false, waitTimeoutMillis)
		if err != nil {
			return Result{}, err
		}

		if ready.Readable {
			n, err := drainOnce(sock, buf, correlator, &receives, verbose, log)
			if err != nil {
				return Result{}, err
			}
			received += n
			attempts = drainAttempts
		} else {
			attempts--
		}
	}

	return Result{Sends: sends, Receives: receives, Pairs: correlator.Pairs()}, nil
}

func sendQuery(sock netio.Socket, server netip.AddrPort, query []byte, verbose bool, log *logging.Logger) (clock.Timestamp, bool, error) {
	if err := sock.SendTo(query, server); err != nil {
		if err == netio.ErrWouldBlock {
			return clock.Timestamp{}, false, nil
		}
		return clock.Timestamp{}, false, err
	}

	now, err := clock.Now()
	if err != nil {
		return clock.Timestamp{}, false, err
	}

	if verbose {
		log.Info("Sent %d bytes.", len(query))
	}
	return now, true, nil
}

// drainOnce reads every datagram currently queued on sock (until
// ErrWouldBlock), correlating each to its slot. It returns the number of
// answers successfully matched.
func drainOnce(sock netio.Socket, buf []byte, correlator *Correlator, receives *[]clock.Timestamp, verbose bool, log *logging.Logger) (int, error) {
	matched := 0

	for {
		n, _, err := sock.RecvFrom(buf)
		if err == netio.ErrWouldBlock {
			return matched, nil
		}
		if err != nil {
			return matched, err
		}

		now, err := clock.Now()
		if err != nil {
			return matched, err
		}

		if n < wire.HeaderSize {
			return matched, &errors.ProtocolError{
				Operation: "receive answer",
				Message:   "datagram shorter than the DNS header",
			}
		}

		header, err := wire.ParseHeader(buf[:n])
		if err != nil {
			return matched, err
		}

		if verbose {
			log.Info("Answer:\n\tID.........: %d\n\tFlags......: 0x%x\n\tQueries....: %d\n\tAnswers....: %d",
				header.ID, header.Flags, header.QDCount, header.ANCount)
		}

		if slots := len(correlator.Pairs()); slots <= transactionIDModulus && int(header.ID) >= slots {
			return matched, &errors.ProtocolError{
				Operation: "correlate response",
				Message:   fmt.Sprintf("transaction id %d >= query count %d", header.ID, slots),
			}
		}

		if _, ok := correlator.Match(header.ID, now); ok {
			*receives = append(*receives, now)
			matched++
		} else if verbose {
			log.Error("Received duplicate or unmatched answer for query with transaction id %d.", header.ID)
		}
	}
}
