package uhj

/*------------------------------------------------------------------
 *
 * Purpose:	Streaming 2-channel UHJ matrix encoder with a wideband +90
 *		degree phase-shifted side chain.
 *
 * Description:	Converts a B-format (W,X,Y) signal into a UHJ-encoded
 *		stereo pair, one block at a time, carrying the phase
 *		shifter's history and the S/D mid-side carry-over across
 *		calls so callers can feed it in chunks of any size up to
 *		BlockSize.
 *
 *----------------------------------------------------------------*/

// BlockSize is the largest number of samples a single Encode call accepts;
// smaller chunks are fine, and Encode panics on a larger one.
const BlockSize = 1024

// UHJ matrix coefficients, from the 2-channel UHJ specification.
const (
	coeffS_W = 0.9396926
	coeffS_X = 0.1855740
	coeffD_Y = 0.6554516
	coeffT_W = -0.3420201
	coeffT_X = 0.5098604
)

// Encoder holds the persistent state of a streaming UHJ encoder: the mid/
// side carry-over from the previous block and the phase shifter's rolling
// input history.
type Encoder struct {
	shifter *PhaseShifter

	// s and d hold FilterDelay samples of carry-over followed by the
	// current block's contribution; see Encode.
	s [FilterDelay + BlockSize]float64
	d [FilterDelay + BlockSize]float64

	// wxHistory holds filterTaps-1 samples of T = (-0.342*W + 0.51*X)
	// history for the phase shifter's side chain.
	wxHistory [filterTaps - 1]float64
}

// NewEncoder creates a streaming UHJ encoder with zeroed history, i.e. as if
// preceded by silence.
func NewEncoder() *Encoder {
	return &Encoder{shifter: NewPhaseShifter()}
}

// Encode consumes samplesToDo samples from w, x, y (each at least
// samplesToDo long) and writes samplesToDo samples into left and right.
// Samples at the very start of the stream reflect the encoder's zeroed
// pre-history (the lead-in); callers doing file I/O are expected to discard
// the first FilterDelay output samples and to flush FilterDelay samples of
// trailing zero input at end of stream (see Flush).
func (e *Encoder) Encode(left, right []float64, w, x, y []float64, samplesToDo int) {
	if samplesToDo > BlockSize {
		panic("uhj: Encoder.Encode: samplesToDo exceeds BlockSize")
	}

	// Step 1 & 2: mid (S) and side (D) direct components, appended after
	// the FilterDelay samples of carry-over from the previous block.
	for i := 0; i < samplesToDo; i++ {
		e.s[FilterDelay+i] = coeffS_W*w[i] + coeffS_X*x[i]
		e.d[FilterDelay+i] = coeffD_Y * y[i]
	}

	// Step 3: scratch signal T, prefixed by the rolling WXHistory.
	t := make([]float64, len(e.wxHistory)+samplesToDo)
	copy(t, e.wxHistory[:])
	for i := 0; i < samplesToDo; i++ {
		t[len(e.wxHistory)+i] = coeffT_W*w[i] + coeffT_X*x[i]
	}

	// Step 4: advance WXHistory to the trailing filterTaps-1 samples of t.
	copy(e.wxHistory[:], t[len(t)-len(e.wxHistory):])

	// Step 5: phase-shift T and accumulate into D.
	e.shifter.processAccum(e.d[FilterDelay:FilterDelay+samplesToDo], t)

	// Step 6: combine, reading from the *start* of S/D (the carry-over),
	// which is what realizes the FilterDelay-sample intrinsic delay.
	for i := 0; i < samplesToDo; i++ {
		left[i] = 0.5 * (e.s[i] + e.d[i])
		right[i] = 0.5 * (e.s[i] - e.d[i])
	}

	// Step 7: shift the trailing FilterDelay samples down to the front for
	// the next block's carry-over.
	copy(e.s[:FilterDelay], e.s[samplesToDo:samplesToDo+FilterDelay])
	copy(e.d[:FilterDelay], e.d[samplesToDo:samplesToDo+FilterDelay])
}

// Flush pushes FilterDelay samples of silence through the encoder to drain
// the filter's remaining history, returning the final FilterDelay output
// samples of the stream.
func (e *Encoder) Flush(left, right []float64) {
	zero := make([]float64, FilterDelay)
	e.Encode(left, right, zero, zero, zero, FilterDelay)
}

// ClampTo24Bit clamps a float sample to the range representable by signed
// 24-bit PCM without wraparound at positive full scale, per the output
// adapter's contract.
func ClampTo24Bit(sample float64) float64 {
	const max = 8388607.0 / 8388608.0
	switch {
	case sample > max:
		return max
	case sample < -1.0:
		return -1.0
	default:
		return sample
	}
}
