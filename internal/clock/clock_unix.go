//go:build linux

package clock

import (
	"golang.org/x/sys/unix"

	"github.com/nslatency/mig/internal/errors"
)

// Now returns the current instant from CLOCK_MONOTONIC_RAW, unaffected by
// NTP slewing, matching the original probe/reflector's preferred clock
// source on platforms that expose it.
func Now() (Timestamp, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return Timestamp{}, &errors.NetworkError{
			Operation: "get timestamp",
			Err:       err,
			Details:   "clock_gettime(CLOCK_MONOTONIC_RAW) failed",
		}
	}
	return Timestamp{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, nil
}
