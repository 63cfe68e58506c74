package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPodIntChoice_ResolveRate(t *testing.T) {
	cases := []struct {
		name        string
		choice      PodIntChoice
		min, max    int
		wantRate    int
		wantOK      bool
	}{
		{"none pinned in range", PodIntChoice{Kind: PodNone, Default: 48000}, 8000, 192000, 48000, true},
		{"range clamps default", PodIntChoice{Kind: PodRange, Default: 500000, Min: 8000, Max: 192000}, 8000, 192000, 192000, true},
		{"enum default in range", PodIntChoice{Kind: PodEnum, Default: 44100, Alternatives: []int{48000, 96000}}, 8000, 192000, 44100, true},
		{"enum default out of range falls back to first valid alt", PodIntChoice{Kind: PodEnum, Default: 5000, Alternatives: []int{4000, 48000, 96000}}, 8000, 192000, 48000, true},
		{"enum no valid alternative", PodIntChoice{Kind: PodEnum, Default: 5000, Alternatives: []int{4000, 6000}}, 8000, 192000, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rate, ok := c.choice.ResolveRate(c.min, c.max)
			assert.Equal(t, c.wantOK, ok)
			if ok {
				assert.Equal(t, c.wantRate, rate)
			}
		})
	}
}

func TestResolvePosition_LargestTemplateWins(t *testing.T) {
	positions := []string{"FL", "FR", "FC", "LFE", "RL", "RR", "SL", "SR"}
	assert.Equal(t, ChannelsX71, ResolvePosition(positions, 0))

	assert.Equal(t, ChannelsX51, ResolvePosition([]string{"FL", "FR", "FC", "LFE", "SL", "SR"}, 0))
	assert.Equal(t, ChannelsStereo, ResolvePosition([]string{"FL", "FR"}, 0))
}

func TestResolvePosition_FallbackOnChannelCount(t *testing.T) {
	assert.Equal(t, ChannelsStereo, ResolvePosition(nil, 2))
	assert.Equal(t, ChannelsMono, ResolvePosition(nil, 1))
	assert.Equal(t, ChannelsMono, ResolvePosition(nil, 0))
}
