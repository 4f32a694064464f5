//go:build darwin

package clock

import (
	"golang.org/x/sys/unix"

	"github.com/nslatency/mig/internal/errors"
)

// Now returns the current instant from CLOCK_MONOTONIC. Darwin does not
// reliably expose CLOCK_MONOTONIC_RAW through golang.org/x/sys/unix, so
// this is the `#else` branch of the original's clock source preprocessor
// conditional.
func Now() (Timestamp, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return Timestamp{}, &errors.NetworkError{
			Operation: "get timestamp",
			Err:       err,
			Details:   "clock_gettime(CLOCK_MONOTONIC) failed",
		}
	}
	return Timestamp{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, nil
}
