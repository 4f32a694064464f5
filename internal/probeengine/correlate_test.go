package probeengine

import (
	"testing"

	"github.com/nslatency/mig/internal/clock"
)

func TestCorrelator_MatchesDirectSlot(t *testing.T) {
	c := NewCorrelator(3)
	c.RecordSent(0, clock.Timestamp{Sec: 1})
	c.RecordSent(1, clock.Timestamp{Sec: 2})
	c.RecordSent(2, clock.Timestamp{Sec: 3})

	slot, ok := c.Match(1, clock.Timestamp{Sec: 5})
	if !ok || slot != 1 {
		t.Fatalf("Match(1, ...) = (%d, %v), want (1, true)", slot, ok)
	}
	if !c.Pairs()[1].Answered {
		t.Error("pair 1 not marked answered")
	}
}

func TestCorrelator_RejectsReceivedBeforeSent(t *testing.T) {
	c := NewCorrelator(1)
	c.RecordSent(0, clock.Timestamp{Sec: 10})

	_, ok := c.Match(0, clock.Timestamp{Sec: 5})
	if ok {
		t.Error("Match() = true for a receive timestamp earlier than send, want false")
	}
}

func TestCorrelator_DuplicateAnswerIsUnmatched(t *testing.T) {
	c := NewCorrelator(1)
	c.RecordSent(0, clock.Timestamp{Sec: 1})

	if _, ok := c.Match(0, clock.Timestamp{Sec: 2}); !ok {
		t.Fatal("first Match() = false, want true")
	}
	if _, ok := c.Match(0, clock.Timestamp{Sec: 3}); ok {
		t.Error("second Match() for the same slot = true, want false (duplicate)")
	}
}

func TestCorrelator_EquivalenceClassScan(t *testing.T) {
	count := transactionIDModulus + 2
	c := NewCorrelator(count)

	id := uint16(5)
	c.RecordSent(int(id), clock.Timestamp{Sec: 1})
	c.RecordSent(int(id)+transactionIDModulus, clock.Timestamp{Sec: 2})

	slot, ok := c.Match(id, clock.Timestamp{Sec: 3})
	if !ok || slot != int(id) {
		t.Fatalf("first Match(%d, ...) = (%d, %v), want (%d, true)", id, slot, ok, id)
	}

	slot, ok = c.Match(id, clock.Timestamp{Sec: 4})
	if !ok || slot != int(id)+transactionIDModulus {
		t.Fatalf("second Match(%d, ...) = (%d, %v), want (%d, true)", id, slot, ok, int(id)+transactionIDModulus)
	}
}

func TestCorrelator_OutOfRangeIDIsUnmatched(t *testing.T) {
	c := NewCorrelator(10)

	if _, ok := c.Match(9999, clock.Timestamp{Sec: 1}); ok {
		t.Error("Match() for an out-of-range id = true, want false")
	}
}
