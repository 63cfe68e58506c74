//go:build unix

package backend

import (
	"time"

	"golang.org/x/sys/unix"
)

// monotonicNow samples CLOCK_MONOTONIC directly rather than going through
// time.Now()'s wall-clock-plus-monotonic-reading pair, matching the source
// clock-latency formula's explicit dependency on a monotonic reference
// clock (spec §4.5 "the monotonic clock at the time of the query").
func monotonicNow() time.Time {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return time.Now()
	}
	sec, nsec := ts.Unix()
	return time.Unix(sec, nsec)
}
