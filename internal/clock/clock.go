// Package clock provides the monotonic-raw timestamp source shared by the
// probe and reflector engines. Both engines stamp every send/receive event
// with it; wall time is never used (spec: timestamps must survive NTP
// step adjustments mid-run).
package clock

import "fmt"

const nanosecondsPerSecond = 1_000_000_000

// Timestamp is a monotonic instant expressed as seconds and nanoseconds,
// mirroring struct timespec from the original probe/reflector.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// UnixNano64 encodes the timestamp as sec*1e9 + nsec, the 64-bit unsigned
// wire/JSON representation used throughout the result artifacts.
func (t Timestamp) UnixNano64() uint64 {
	return uint64(t.Sec)*nanosecondsPerSecond + uint64(t.Nsec)
}

// Before reports whether t happened strictly before other.
func (t Timestamp) Before(other Timestamp) bool {
	return t.UnixNano64() < other.UnixNano64()
}

// Sub returns the nanosecond delta t - other. Both operands must come from
// the same clock source; negative results mean other happened after t.
func (t Timestamp) Sub(other Timestamp) int64 {
	return int64(t.UnixNano64()) - int64(other.UnixNano64())
}

// IsZero reports whether the timestamp is the zero value (never stamped).
func (t Timestamp) IsZero() bool {
	return t.Sec == 0 && t.Nsec == 0
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d.%09d", t.Sec, t.Nsec)
}
