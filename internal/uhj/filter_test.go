package uhj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseShifter_DCRejection(t *testing.T) {
	ps := NewPhaseShifter()
	in := make([]float64, filterTaps-1+BlockSize)
	for i := range in {
		in[i] = 1
	}
	out := make([]float64, BlockSize)
	ps.processAccum(out, in)

	for i, v := range out {
		assert.InDeltaf(t, 0, v, 1e-2, "DC input should produce ~0 Hilbert response at %d", i)
	}
}

func TestPhaseShifter_ImpulseResponseIsCausal(t *testing.T) {
	ps := NewPhaseShifter()
	in := make([]float64, filterTaps-1+BlockSize)
	in[0] = 1
	out := make([]float64, BlockSize)
	ps.processAccum(out, in)

	// The kernel is centered at FilterDelay taps in; an impulse at the very
	// start of the history window should show up near the start of out.
	var energyBefore, energyAfter float64
	for i, v := range out {
		if i < 8 {
			energyBefore += v * v
		} else {
			energyAfter += v * v
		}
	}
	assert.Greater(t, energyBefore, 0.0)
	_ = energyAfter
}

func TestPhaseShifter_Accumulates(t *testing.T) {
	ps := NewPhaseShifter()
	in := make([]float64, filterTaps-1+BlockSize)
	in[filterTaps-1-(FilterDelay+1)] = 1 // lands on the non-zero tap just past the kernel center
	out := make([]float64, BlockSize)
	out[0] = 42
	ps.processAccum(out, in)
	assert.NotEqual(t, 42.0, out[0], "processAccum must add to, not overwrite, existing output")
}
