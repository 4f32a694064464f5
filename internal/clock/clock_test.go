package clock

import "testing"

func TestTimestamp_UnixNano64(t *testing.T) {
	ts := Timestamp{Sec: 2, Nsec: 500}
	if got, want := ts.UnixNano64(), uint64(2*nanosecondsPerSecond+500); got != want {
		t.Errorf("UnixNano64() = %d, want %d", got, want)
	}
}

func TestTimestamp_BeforeAndSub(t *testing.T) {
	earlier := Timestamp{Sec: 1, Nsec: 0}
	later := Timestamp{Sec: 1, Nsec: 100}

	if !earlier.Before(later) {
		t.Error("earlier.Before(later) = false, want true")
	}
	if later.Before(earlier) {
		t.Error("later.Before(earlier) = true, want false")
	}

	if delta := later.Sub(earlier); delta != 100 {
		t.Errorf("later.Sub(earlier) = %d, want 100", delta)
	}
}

func TestTimestamp_IsZero(t *testing.T) {
	if !(Timestamp{}).IsZero() {
		t.Error("zero value Timestamp.IsZero() = false, want true")
	}
	if (Timestamp{Sec: 1}).IsZero() {
		t.Error("nonzero Timestamp.IsZero() = true, want false")
	}
}

func TestNow_Monotonic(t *testing.T) {
	first, err := Now()
	if err != nil {
		t.Fatalf("Now() error: %v", err)
	}
	second, err := Now()
	if err != nil {
		t.Fatalf("Now() error: %v", err)
	}

	if second.UnixNano64() < first.UnixNano64() {
		t.Errorf("clock went backwards: first=%s second=%s", first, second)
	}
}
