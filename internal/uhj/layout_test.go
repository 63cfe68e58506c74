package uhj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLayout_Fallbacks(t *testing.T) {
	cases := []struct {
		channels int
		want     Layout
		ok       bool
	}{
		{2, LayoutStereo, true},
		{6, Layout51, true},
		{8, Layout71, true},
		{3, 0, false},
		{5, 0, false},
	}
	for _, c := range cases {
		got, ok := DetectLayout(c.channels, nil)
		assert.Equal(t, c.ok, ok, "channels=%d", c.channels)
		if ok {
			assert.Equal(t, c.want, got, "channels=%d", c.channels)
		}
	}
}

func TestDetectLayout_BFormat(t *testing.T) {
	wxy := []ChanMapID{MapAmbisonicW, MapAmbisonicX, MapAmbisonicY}
	got, ok := DetectLayout(3, wxy)
	assert.True(t, ok)
	assert.Equal(t, LayoutBFormat2D, got)

	wxyz := []ChanMapID{MapAmbisonicW, MapAmbisonicX, MapAmbisonicY, MapAmbisonicZ}
	got, ok = DetectLayout(4, wxyz)
	assert.True(t, ok)
	assert.Equal(t, LayoutBFormat3D, got)
}

func TestDetectLayout_QuadVsBFormat(t *testing.T) {
	quad := []ChanMapID{MapFrontLeft, MapFrontRight, MapRearLeft, MapRearRight}
	got, ok := DetectLayout(4, quad)
	assert.True(t, ok)
	assert.Equal(t, LayoutQuad, got)
}

func TestDetectLayout_51Rear(t *testing.T) {
	m := []ChanMapID{MapFrontLeft, MapFrontRight, MapFrontCenter, MapLFE, MapRearLeft, MapRearRight}
	got, ok := DetectLayout(6, m)
	assert.True(t, ok)
	assert.Equal(t, Layout51Rear, got)
}

func TestDetectLayout_UnrecognizedMapSkips(t *testing.T) {
	m := []ChanMapID{MapFrontLeft, MapFrontCenter} // 2 channels with an odd map still resolve to stereo: detection short-circuits on channel count 2
	_, ok := DetectLayout(2, m)
	assert.True(t, ok) // 2 channels is always treated as stereo per the spec's table

	odd := []ChanMapID{MapFrontLeft, MapFrontCenter, MapLFE}
	_, ok = DetectLayout(3, odd)
	assert.False(t, ok)
}
