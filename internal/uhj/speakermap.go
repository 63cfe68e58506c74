package uhj

import (
	"math"

	"github.com/golang/geo/s1"
)

// ChannelID identifies a single input channel's role within a speaker map.
type ChannelID int

const (
	ChanFrontLeft ChannelID = iota
	ChanFrontRight
	ChanFrontCenter
	ChanLFE
	ChanRearLeft
	ChanRearRight
	ChanSideLeft
	ChanSideRight
	ChanTopFrontLeft
	ChanTopFrontRight
	ChanTopRearLeft
	ChanTopRearRight
)

// SpeakerPosition is one entry of a speaker map: a channel and the direction
// ambisonic panning should place it at. Azimuth is measured counter-clockwise
// from front (0), positive towards the left; Elevation is measured up from
// the horizontal plane.
type SpeakerPosition struct {
	Channel   ChannelID
	Azimuth   s1.Angle
	Elevation s1.Angle
	IsLFE     bool
}

// deg is a small helper so the layout tables below read in degrees, the unit
// loudspeaker layouts are conventionally specified in.
func deg(d float64) s1.Angle { return s1.Angle(d * math.Pi / 180) }

// Layout enumerates the speaker layouts the encoder understands.
type Layout int

const (
	LayoutStereo Layout = iota
	LayoutQuad
	Layout51
	Layout51Rear
	Layout71
	Layout714
	LayoutBFormat2D // WXY
	LayoutBFormat3D // WXYZ
)

func (l Layout) String() string {
	switch l {
	case LayoutStereo:
		return "stereo"
	case LayoutQuad:
		return "quad"
	case Layout51:
		return "5.1"
	case Layout51Rear:
		return "5.1-rear"
	case Layout71:
		return "7.1"
	case Layout714:
		return "7.1.4"
	case LayoutBFormat2D:
		return "bformat-wxy"
	case LayoutBFormat3D:
		return "bformat-wxyz"
	default:
		return "unknown"
	}
}

// AllLayouts enumerates every recognized Layout value, for CLI/config flags
// that accept a layout by name.
var AllLayouts = []Layout{
	LayoutStereo, LayoutQuad, Layout51, Layout51Rear, Layout71, Layout714,
	LayoutBFormat2D, LayoutBFormat3D,
}

// speakerMaps gives the azimuth/elevation for every loudspeaker layout the
// encoder panner can synthesize ambisonic coefficients for. Azimuth
// convention: counter-clockwise, 0 = front, positive = left.
var speakerMaps = map[Layout][]SpeakerPosition{
	LayoutStereo: {
		{Channel: ChanFrontLeft, Azimuth: deg(30)},
		{Channel: ChanFrontRight, Azimuth: deg(-30)},
	},
	LayoutQuad: {
		{Channel: ChanFrontLeft, Azimuth: deg(45)},
		{Channel: ChanFrontRight, Azimuth: deg(-45)},
		{Channel: ChanRearLeft, Azimuth: deg(135)},
		{Channel: ChanRearRight, Azimuth: deg(-135)},
	},
	Layout51: {
		{Channel: ChanFrontLeft, Azimuth: deg(30)},
		{Channel: ChanFrontRight, Azimuth: deg(-30)},
		{Channel: ChanFrontCenter, Azimuth: deg(0)},
		{Channel: ChanLFE, IsLFE: true},
		{Channel: ChanSideLeft, Azimuth: deg(110)},
		{Channel: ChanSideRight, Azimuth: deg(-110)},
	},
	Layout51Rear: {
		{Channel: ChanFrontLeft, Azimuth: deg(30)},
		{Channel: ChanFrontRight, Azimuth: deg(-30)},
		{Channel: ChanFrontCenter, Azimuth: deg(0)},
		{Channel: ChanLFE, IsLFE: true},
		{Channel: ChanRearLeft, Azimuth: deg(135)},
		{Channel: ChanRearRight, Azimuth: deg(-135)},
	},
	Layout71: {
		{Channel: ChanFrontLeft, Azimuth: deg(30)},
		{Channel: ChanFrontRight, Azimuth: deg(-30)},
		{Channel: ChanFrontCenter, Azimuth: deg(0)},
		{Channel: ChanLFE, IsLFE: true},
		{Channel: ChanRearLeft, Azimuth: deg(150)},
		{Channel: ChanRearRight, Azimuth: deg(-150)},
		{Channel: ChanSideLeft, Azimuth: deg(90)},
		{Channel: ChanSideRight, Azimuth: deg(-90)},
	},
	Layout714: {
		{Channel: ChanFrontLeft, Azimuth: deg(30)},
		{Channel: ChanFrontRight, Azimuth: deg(-30)},
		{Channel: ChanFrontCenter, Azimuth: deg(0)},
		{Channel: ChanLFE, IsLFE: true},
		{Channel: ChanRearLeft, Azimuth: deg(150)},
		{Channel: ChanRearRight, Azimuth: deg(-150)},
		{Channel: ChanSideLeft, Azimuth: deg(90)},
		{Channel: ChanSideRight, Azimuth: deg(-90)},
		{Channel: ChanTopFrontLeft, Azimuth: deg(45), Elevation: deg(35)},
		{Channel: ChanTopFrontRight, Azimuth: deg(-45), Elevation: deg(35)},
		{Channel: ChanTopRearLeft, Azimuth: deg(135), Elevation: deg(35)},
		{Channel: ChanTopRearRight, Azimuth: deg(-135), Elevation: deg(35)},
	},
}

// SpeakerMapFor returns the speaker positions for a known loudspeaker
// layout. B-format layouts have no speaker map; they bypass panning.
func SpeakerMapFor(l Layout) ([]SpeakerPosition, bool) {
	m, ok := speakerMaps[l]
	return m, ok
}

// AmbiCoeffs computes the FuMa (+3dB) first-order ambisonic coefficients
// [W, X, Y, Z] for a direction given by azimuth and elevation.
func AmbiCoeffs(az, el s1.Angle) [4]float64 {
	const sqrt2 = math.Sqrt2
	cosEl := math.Cos(el.Radians())
	return [4]float64{
		1.0,
		sqrt2 * math.Cos(az.Radians()) * cosEl,
		sqrt2 * math.Sin(az.Radians()) * cosEl,
		sqrt2 * math.Sin(el.Radians()),
	}
}
