package uhj

/*------------------------------------------------------------------
 *
 * Purpose:	Generate and apply the wideband +90 degree phase shifter
 *		used by the UHJ side-chain (the "j" term, D = j*Y).
 *
 *		A true Hilbert transformer is infinite and non-causal; this
 *		approximates it with a windowed-sinc FIR of finite length,
 *		which is why every block carries a fixed FilterDelay of
 *		taps/2 samples of group delay.
 *
 *----------------------------------------------------------------*/

import "math"

// FilterDelay is the number of samples of group delay introduced by the
// phase shifter. Every UHJ output sample at block position i reflects input
// from FilterDelay samples earlier.
const FilterDelay = 1024

// filterTaps is the total length of the phase-shifter kernel.
const filterTaps = 2 * FilterDelay

// PhaseShifter approximates a wideband +90 degree phase shift (a Hilbert
// transformer) with a fixed FIR kernel.
type PhaseShifter struct {
	kernel [filterTaps]float64
}

// NewPhaseShifter builds a phase shifter with a Blackman-windowed
// antisymmetric sinc kernel centered on FilterDelay.
func NewPhaseShifter() *PhaseShifter {
	var ps PhaseShifter
	const center = FilterDelay
	for i := 0; i < filterTaps; i++ {
		d := i - center
		if d == 0 {
			continue
		}
		if d%2 == 0 {
			continue // even-offset taps of a Hilbert transformer are zero
		}
		ideal := 2.0 / (math.Pi * float64(d))
		ps.kernel[i] = ideal * blackman(i, filterTaps)
	}
	return &ps
}

// blackman evaluates the Blackman window at tap j of a kernel of the given
// size, used to taper the ideal (infinite) Hilbert response to finite length.
func blackman(j, size int) float64 {
	n := float64(size - 1)
	x := float64(j)
	return 0.42 - 0.5*math.Cos(2*math.Pi*x/n) + 0.08*math.Cos(4*math.Pi*x/n)
}

// processAccum convolves in against the kernel and accumulates the result
// into out. in must hold filterTaps-1 samples of history followed by
// len(out) samples of new input; i.e. len(in) == len(out)+filterTaps-1.
// The caller is responsible for carrying the trailing filterTaps-1 samples
// of in forward as history for the next call.
func (ps *PhaseShifter) processAccum(out, in []float64) {
	need := len(out) + filterTaps - 1
	if len(in) < need {
		panic("uhj: PhaseShifter.processAccum: insufficient input history")
	}
	for i := range out {
		var acc float64
		window := in[i : i+filterTaps]
		for k, c := range ps.kernel {
			if c == 0 {
				continue
			}
			// in[i+filterTaps-1-k] is the causal sample filterTaps-1-k taps
			// in the past relative to the newest sample in this window.
			acc += c * window[filterTaps-1-k]
		}
		out[i] += acc
	}
}
