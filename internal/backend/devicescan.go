package backend

import (
	"strings"
	"time"

	"github.com/gordonklaus/portaudio"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Device snapshot collaborator — the one place this package
 *		talks to portaudio directly, standing in for the registry
 *		globals a real PipeWire client would receive pushed from
 *		the server (spec §4.2).
 *
 *----------------------------------------------------------------*/

// pollInterval paces the event loop's registry-diff polling. PipeWire's own
// loop has no equivalent fixed period — it wakes on server push — so this
// value is chosen to keep hotplug latency imperceptible without burning a
// core busy-polling portaudio's host APIs.
const pollInterval = 500 * time.Millisecond

// portaudioScan takes a point-in-time snapshot of every device portaudio's
// initialized host API reports, translating each into a DeviceNode.
func portaudioScan() ([]DeviceNode, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var defOutName, defInName string
	if d, err := portaudio.DefaultOutputDevice(); err == nil && d != nil {
		defOutName = d.Name
	}
	if d, err := portaudio.DefaultInputDevice(); err == nil && d != nil {
		defInName = d.Name
	}

	out := make([]DeviceNode, 0, len(devices)*2)
	for i, d := range devices {
		id := uint32(i + 1) // 0 is reserved as the "unset" ID
		if d.MaxOutputChannels > 0 {
			out = append(out, DeviceNode{
				ID:           id*2 - 1,
				Name:         d.Name,
				DevName:      d.Name,
				IsCapture:    false,
				IsHeadphones: strings.Contains(strings.ToLower(d.Name), "headphone"),
				SampleRate:   int(d.DefaultSampleRate),
				Channels:     ResolvePosition(positionsFor(d), d.MaxOutputChannels),
				IsDefault:    d.Name == defOutName,
			})
		}
		if d.MaxInputChannels > 0 {
			out = append(out, DeviceNode{
				ID:         id * 2,
				Name:       d.Name,
				DevName:    d.Name,
				IsCapture:  true,
				SampleRate: int(d.DefaultSampleRate),
				Channels:   ResolvePosition(positionsFor(d), d.MaxInputChannels),
				IsDefault:  d.Name == defInName,
			})
		}
	}
	return out, nil
}

// positionsFor returns the channel-position array portaudio reports for d, if
// any. gordonklaus/portaudio's DeviceInfo carries no such field for any host
// API in this build, so this always returns nil today and ResolvePosition
// falls through to its bare-channel-count policy; the hook stays in place for
// a host API (e.g. WASAPI's channel mask) that does expose one.
func positionsFor(d *portaudio.DeviceInfo) []string {
	return nil
}

// pollTicker wraps a time.Ticker behind an interface. The event loop always
// obtains it from newPollTicker, which returns a real ticker at pollInterval.
type pollTicker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newPollTicker() pollTicker {
	return realTicker{t: time.NewTicker(pollInterval)}
}
