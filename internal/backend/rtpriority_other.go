//go:build !unix

package backend

// tryElevatePriority is a no-op on platforms with no niceness/priority
// syscall wired up.
func tryElevatePriority() {}
