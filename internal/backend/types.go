package backend

import "time"

// Channels identifies a device's channel layout, as reported by its preferred
// format (spec §3 DeviceNode.channels).
type Channels int

const (
	ChannelsInvalid Channels = iota
	ChannelsMono
	ChannelsStereo
	ChannelsQuad
	ChannelsX51
	ChannelsX61
	ChannelsX71
	ChannelsAmbi3D
)

func (c Channels) String() string {
	switch c {
	case ChannelsMono:
		return "mono"
	case ChannelsStereo:
		return "stereo"
	case ChannelsQuad:
		return "quad"
	case ChannelsX51:
		return "5.1"
	case ChannelsX61:
		return "6.1"
	case ChannelsX71:
		return "7.1"
	case ChannelsAmbi3D:
		return "ambi3d"
	default:
		return "invalid"
	}
}

// Count returns the number of channels implied by the layout, or 0 for
// ChannelsInvalid/ChannelsAmbi3D (ambisonic channel count depends on order).
func (c Channels) Count() int {
	switch c {
	case ChannelsMono:
		return 1
	case ChannelsStereo:
		return 2
	case ChannelsQuad:
		return 4
	case ChannelsX51:
		return 6
	case ChannelsX61:
		return 7
	case ChannelsX71:
		return 8
	default:
		return 0
	}
}

// DeviceNode is one device discovered on the audio server (spec §3).
type DeviceNode struct {
	ID           uint32
	Name         string
	DevName      string
	IsCapture    bool
	IsHeadphones bool
	SampleRate   int // Hz, 0 = unknown
	Channels     Channels
	IsDefault    bool // true if this is the server's current default sink/source
}

// Flags requests explicit application overrides for stream negotiation
// (spec §6).
type Flags struct {
	FrequencyRequest bool
	ChannelsRequest  bool
	DirectEar        bool
}

// ClockLatency is the result of a getClockLatency() query (spec §4.5).
type ClockLatency struct {
	ClockTime time.Duration
	Latency   time.Duration
}
