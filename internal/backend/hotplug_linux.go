//go:build linux

package backend

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jochenvg/go-udev"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Supplementary Linux hotplug watcher: a udev netlink monitor
 *		on the "sound" subsystem that nudges an EventManager into an
 *		immediate rescan instead of waiting for the next poll tick.
 *
 * Description:	Not spec'd directly — portaudio's polling model already
 *		satisfies spec §4.2's eventual-consistency requirement on
 *		its own — but a real PipeWire client learns of hardware
 *		hotplug near-instantly via the server's own udev-backed
 *		ALSA monitor source object, and WatchHotplug closes most of
 *		that latency gap using the same mechanism on top of
 *		portaudio.
 *
 *----------------------------------------------------------------*/

// WatchHotplug starts a udev monitor on the "sound" subsystem and calls
// em.TriggerRescan on every add/remove event until ctx is done. Errors
// starting the monitor are logged and WatchHotplug returns without blocking;
// the poll-based rescan in EventManager's loop remains the fallback.
func WatchHotplug(ctx context.Context, em *EventManager) {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if mon == nil {
		log.Warn("hotplug: udev monitor unavailable, falling back to poll-only rescan")
		return
	}
	if err := mon.FilterAddMatchSubsystem("sound"); err != nil {
		log.Warn("hotplug: udev filter setup failed", "err", err)
		return
	}

	devCh, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		log.Warn("hotplug: udev monitor start failed", "err", err)
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errCh:
				if err != nil {
					log.Warn("hotplug: udev monitor error", "err", err)
				}
			case dev, ok := <-devCh:
				if !ok {
					return
				}
				log.Debug("hotplug: udev event", "action", dev.Action(), "sysname", dev.Sysname())
				em.TriggerRescan()
			}
		}
	}()
}
