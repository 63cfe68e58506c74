//go:build unix

package backend

import "golang.org/x/sys/unix"

// tryElevatePriority asks the OS for a higher scheduling priority on the
// calling thread, matching the source's real-time thread setup around its
// process callback (spec §4.5 "Real-time process callback"). It is
// best-effort: a process without CAP_SYS_NICE simply keeps its current
// priority, and callers must not treat failure as fatal.
func tryElevatePriority() {
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, -11)
}
