//go:build !linux

package backend

import "context"

// WatchHotplug is a no-op on platforms without a udev-based hotplug source;
// the EventManager's own poll-based rescan remains the sole device-change
// signal.
func WatchHotplug(ctx context.Context, em *EventManager) {}
