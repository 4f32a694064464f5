package probeengine

import (
	"github.com/nslatency/mig/internal/clock"
	"github.com/nslatency/mig/internal/report"
)

// Correlator tracks each query's in-flight slot and matches answers back
// to the slot that produced them. Slot i always corresponds to the query
// built with transaction id i % transactionIDModulus, so an answer
// carrying transaction id X can only have come from slots X, X+modulus,
// X+2*modulus, and so on — the "equivalence class" of slots sharing that
// id, scanned in ascending order.
type Correlator struct {
	pairs []report.Pair
}

// NewCorrelator allocates a Correlator for count in-flight slots.
func NewCorrelator(count int) *Correlator {
	return &Correlator{pairs: make([]report.Pair, count)}
}

// RecordSent stores the send timestamp for slot i.
func (c *Correlator) RecordSent(i int, sent clock.Timestamp) {
	c.pairs[i].Sent = sent
}

// Match finds the first not-yet-answered slot in id's equivalence class
// whose recorded send time precedes received, marks it answered, and
// returns its index. ok is false if no eligible slot exists (a duplicate
// or stray answer).
func (c *Correlator) Match(id uint16, received clock.Timestamp) (slot int, ok bool) {
	for i := int(id); i < len(c.pairs); i += transactionIDModulus {
		p := &c.pairs[i]
		if !p.Answered && p.Sent.Before(received) {
			p.Answered = true
			p.Received = received
			return i, true
		}
	}
	return 0, false
}

// Pairs returns the accumulated per-slot results, in send order.
func (c *Correlator) Pairs() []report.Pair {
	return c.pairs
}
