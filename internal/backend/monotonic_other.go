//go:build !unix

package backend

import "time"

// monotonicNow falls back to time.Now's built-in monotonic reading on
// platforms without a raw CLOCK_MONOTONIC syscall.
func monotonicNow() time.Time {
	return time.Now()
}
