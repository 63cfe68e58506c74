package backend

import "github.com/pkg/errors"

/*------------------------------------------------------------------
 *
 * Purpose:	Node Proxy — negotiates a concrete rate and channel
 *		layout for one device against the application's requested
 *		Flags (spec §4.3).
 *
 *----------------------------------------------------------------*/

// NegotiatedFormat is the result of resolving a device's supported format
// choices against the application's request.
type NegotiatedFormat struct {
	SampleRate int
	Channels   Channels
}

// NodeProxy resolves NegotiatedFormat for a single DeviceNode. Unlike the
// native PipeWire client, there is no separate wire round-trip to fetch a
// node's format params: portaudio's DeviceInfo already carries the device's
// native rate and channel count, so the "params" choice below is always a
// PodNone pinned at the device's own defaults, with the Flags override
// applied afterward.
type NodeProxy struct {
	device DeviceNode
}

// NewNodeProxy wraps dev for format negotiation.
func NewNodeProxy(dev DeviceNode) *NodeProxy {
	return &NodeProxy{device: dev}
}

// Resolve applies the Node Proxy rate/channel policy (spec §4.3): the rate
// is the device's own default clamped to [minRate, maxRate], unless
// flags.FrequencyRequest is set with a positive requestedRate, in which case
// requestedRate (clamped the same way) wins outright. The channel layout is
// always the device's reported layout; Resolve takes no requested layout, so
// flags.ChannelsRequest has no effect on it.
func (n *NodeProxy) Resolve(flags Flags, requestedRate int, minRate, maxRate int) (NegotiatedFormat, error) {
	rateChoice := PodIntChoice{Kind: PodNone, Default: n.device.SampleRate}
	rate, ok := rateChoice.ResolveRate(minRate, maxRate)
	if !ok {
		return NegotiatedFormat{}, errors.Wrap(ErrDeviceError, "node proxy: no acceptable sample rate")
	}
	if flags.FrequencyRequest && requestedRate > 0 {
		rate = clampInt(requestedRate, minRate, maxRate)
	}

	channels := n.device.Channels
	if flags.ChannelsRequest {
		// no requested layout is passed in, so the device's reported
		// layout is kept even when a channel request is flagged.
	}

	return NegotiatedFormat{SampleRate: rate, Channels: channels}, nil
}
