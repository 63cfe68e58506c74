package uhj

import "math"

// Panner synthesizes ambisonic W/X/Y/Z coefficients from a speaker map and
// mixes input channels into a four-channel B-format intermediate buffer.
type Panner struct {
	positions []SpeakerPosition
}

// NewPanner builds a panner for the given speaker layout. Direct B-format
// inputs (LayoutBFormat2D/3D) don't use a Panner; see MixBFormatDirect.
func NewPanner(l Layout) (*Panner, error) {
	positions, ok := SpeakerMapFor(l)
	if !ok {
		return nil, errUnsupportedLayout(l)
	}
	return &Panner{positions: positions}, nil
}

// Mix pans each channel of in (one slice per input channel, in speaker-map
// order) into amb, a four-channel (W,X,Y,Z) destination of the same sample
// count. LFE channels are skipped entirely, matching the spec's non-
// directional treatment of the subwoofer feed.
func (p *Panner) Mix(in [][]float64, amb [4][]float64) {
	for ch, pos := range p.positions {
		if pos.IsLFE {
			continue
		}
		if ch >= len(in) {
			continue
		}
		coeffs := AmbiCoeffs(pos.Azimuth, pos.Elevation)
		src := in[ch]
		for c := 0; c < 4; c++ {
			coeff := coeffs[c]
			if coeff == 0 {
				continue
			}
			dst := amb[c]
			for i, s := range src {
				dst[i] += s * coeff
			}
		}
	}
}

// MixBFormatDirect bypasses panning for true B-format input: each ambisonic
// channel is carried straight through, scaled by sqrt(2) per the source's
// FuMa normalization (preserved verbatim; see DESIGN.md on the W-gain open
// question).
func MixBFormatDirect(in [][]float64, amb [4][]float64) {
	const sqrt2 = math.Sqrt2
	for c := 0; c < len(in) && c < 4; c++ {
		src := in[c]
		dst := amb[c]
		for i, s := range src {
			dst[i] += s * sqrt2
		}
	}
}

type unsupportedLayoutError Layout

func (e unsupportedLayoutError) Error() string {
	return "uhj: unsupported speaker layout: " + Layout(e).String()
}

func errUnsupportedLayout(l Layout) error { return unsupportedLayoutError(l) }
