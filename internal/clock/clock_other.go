//go:build !linux && !darwin

package clock

import "time"

// Now falls back to the Go runtime's monotonic clock on every platform
// other than Linux and Darwin (e.g. Windows). The probe and reflector only ever
// compare timestamps produced by this same process run, so runtime
// monotonic time satisfies the "never wall time" requirement even though
// it is not clock_gettime-backed.
var epoch = time.Now()

func Now() (Timestamp, error) {
	d := time.Since(epoch)
	return Timestamp{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}, nil
}
