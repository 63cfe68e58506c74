package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeProxy_Resolve_DeviceDefaultClamped(t *testing.T) {
	np := NewNodeProxy(DeviceNode{SampleRate: 44100, Channels: ChannelsStereo})
	format, err := np.Resolve(Flags{}, 0, 48000, 192000)
	require.NoError(t, err)
	assert.Equal(t, 48000, format.SampleRate) // 44100 clamped up to the floor
	assert.Equal(t, ChannelsStereo, format.Channels)
}

func TestNodeProxy_Resolve_ExplicitFrequencyRequestWins(t *testing.T) {
	np := NewNodeProxy(DeviceNode{SampleRate: 44100, Channels: ChannelsStereo})
	format, err := np.Resolve(Flags{FrequencyRequest: true}, 96000, 8000, 192000)
	require.NoError(t, err)
	assert.Equal(t, 96000, format.SampleRate)
}

func TestNodeProxy_Resolve_NoFrequencyRequestKeepsDeviceDefault(t *testing.T) {
	np := NewNodeProxy(DeviceNode{SampleRate: 48000, Channels: ChannelsX51})
	format, err := np.Resolve(Flags{}, 96000, 8000, 192000)
	require.NoError(t, err)
	assert.Equal(t, 48000, format.SampleRate)
	assert.Equal(t, ChannelsX51, format.Channels)
}
