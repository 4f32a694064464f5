// Package report renders the probe's and reflector's timestamp artifacts
// as JSON, byte-for-byte matching the original tool's hand-written
// fprintf output (tab indentation, specific comma and newline placement)
// rather than encoding/json's generic formatting — the artifact's layout
// is part of its contract with downstream analysis tooling.
package report

import (
	"fmt"
	"io"

	"github.com/nslatency/mig/internal/clock"
)

// Pair is one probe query's correlated timing: Sent is always present;
// Received is valid only when Answered is true.
type Pair struct {
	Sent     clock.Timestamp
	Received clock.Timestamp
	Answered bool
}

// WriteProbeReport writes the probe's artifact: a JSON object with
// "sends", "receives" and "pairs" arrays, in that order.
func WriteProbeReport(w io.Writer, sends, receives []clock.Timestamp, pairs []Pair) error {
	if _, err := io.WriteString(w, `{"sends":`+"\n\t["); err != nil {
		return err
	}
	if err := writeTimestampArray(w, sends); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "],\n \"receives\":\n\t["); err != nil {
		return err
	}
	if err := writeTimestampArray(w, receives); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "],\n \"pairs\":\n\t["); err != nil {
		return err
	}
	if err := writePairArray(w, pairs); err != nil {
		return err
	}

	_, err := io.WriteString(w, "]\n}\n")
	return err
}

// WriteReflectorReport writes the reflector's artifact: a JSON object with
// "receives" and "sends" arrays, in that order (the reverse of the
// probe's, matching when each side observes its own half of an exchange).
func WriteReflectorReport(w io.Writer, receives, sends []clock.Timestamp) error {
	if _, err := io.WriteString(w, `{"receives":`+"\n\t["); err != nil {
		return err
	}
	if err := writeTimestampArray(w, receives); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "],\n \"sends\":\n\t["); err != nil {
		return err
	}
	if err := writeTimestampArray(w, sends); err != nil {
		return err
	}

	_, err := io.WriteString(w, "]\n}\n")
	return err
}

func writeTimestampArray(w io.Writer, timestamps []clock.Timestamp) error {
	if len(timestamps) == 0 {
		return nil
	}

	for _, ts := range timestamps[:len(timestamps)-1] {
		if _, err := fmt.Fprintf(w, "\n\t\t%d,", ts.UnixNano64()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n\t\t%d\n\t", timestamps[len(timestamps)-1].UnixNano64())
	return err
}

func writePairArray(w io.Writer, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	for _, p := range pairs[:len(pairs)-1] {
		if err := writePair(w, p, ","); err != nil {
			return err
		}
	}

	return writePair(w, pairs[len(pairs)-1], "\n\t")
}

func writePair(w io.Writer, p Pair, trailer string) error {
	sent := p.Sent.UnixNano64()

	var err error
	if p.Answered {
		received := p.Received.UnixNano64()
		_, err = fmt.Fprintf(w, "\n\t\t[%d, %d, %d]%s", sent, received, int64(received)-int64(sent), trailer)
	} else {
		_, err = fmt.Fprintf(w, "\n\t\t[%d]%s", sent, trailer)
	}
	return err
}
