package audioio

/*------------------------------------------------------------------
 *
 * Purpose:	Wire the Input Adapter, Virtual-Speaker Panner, UHJ Encoder
 *		and Output Adapter into the single-file encode pipeline used
 *		by cmd/encoder.
 *
 *----------------------------------------------------------------*/

import (
	"github.com/pkg/errors"

	"github.com/telematixsw/uhjstream/internal/uhj"
)

// EncodeResult summarizes one file's encode for the CLI's end-of-run report.
type EncodeResult struct {
	InputSamples  int
	OutputSamples int64
	Layout        uhj.Layout
}

// EncodeFile reads inPath, UHJ-encodes it and writes a 2-channel 24-bit FLAC
// file to outPath. layoutOverride, if non-negative (a uhj.Layout value;
// callers pass -1 for "no override"), bypasses channel-map/count detection.
func EncodeFile(inPath, outPath string, layoutOverride int) (*EncodeResult, error) {
	src, err := OpenSource(inPath)
	if err != nil {
		return nil, err
	}

	nchan := len(src.Channels)
	var layout uhj.Layout
	if layoutOverride >= 0 {
		layout = uhj.Layout(layoutOverride)
	} else {
		var ok bool
		layout, ok = uhj.DetectLayout(nchan, src.ChanMap)
		if !ok {
			return nil, errors.Errorf("audioio: unrecognized channel layout for %d channels, map=%v", nchan, src.ChanMap)
		}
	}

	nSamples := 0
	if nchan > 0 {
		nSamples = len(src.Channels[0])
	}

	var amb [4][]float64
	for i := range amb {
		amb[i] = make([]float64, nSamples)
	}

	if layout == uhj.LayoutBFormat2D || layout == uhj.LayoutBFormat3D {
		uhj.MixBFormatDirect(src.Channels, amb)
	} else {
		panner, err := uhj.NewPanner(layout)
		if err != nil {
			return nil, err
		}
		panner.Mix(src.Channels, amb)
	}

	sink, err := CreateSink(outPath, src.SampleRate, uint64(nSamples))
	if err != nil {
		return nil, err
	}
	defer sink.Close() // no-op on the success path below, where Close is already called explicitly

	enc := uhj.NewEncoder()
	total := nSamples + uhj.FilterDelay // lead-out: flush FilterDelay zero samples at EOF
	written := 0
	skip := uhj.FilterDelay // lead-in: discard first FilterDelay output samples

	left := make([]float64, uhj.BlockSize)
	right := make([]float64, uhj.BlockSize)
	zero := make([]float64, uhj.BlockSize)

	for pos := 0; pos < total; pos += uhj.BlockSize {
		n := uhj.BlockSize
		if pos+n > total {
			n = total - pos
		}
		w, x, y := sliceOrZero(amb, pos, n, zero)
		enc.Encode(left[:n], right[:n], w, x, y, n)

		start := 0
		if skip > 0 {
			if skip >= n {
				skip -= n
				continue
			}
			start = skip
			skip = 0
		}
		if err := sink.WriteBlock(left[start:n], right[start:n]); err != nil {
			return nil, err
		}
		written += n - start
	}

	if err := sink.Close(); err != nil {
		return nil, err
	}

	return &EncodeResult{
		InputSamples:  nSamples,
		OutputSamples: sink.Written(),
		Layout:        layout,
	}, nil
}

// sliceOrZero returns samplesToDo-length windows of amb[0..2] (W,X,Y) at pos,
// substituting zero-filled slices past the end of the real signal (the
// lead-out pad).
func sliceOrZero(amb [4][]float64, pos, n int, zero []float64) (w, x, y []float64) {
	get := func(ch int) []float64 {
		src := amb[ch]
		if pos >= len(src) {
			return zero[:n]
		}
		end := pos + n
		if end > len(src) {
			out := make([]float64, n)
			copy(out, src[pos:])
			return out
		}
		return src[pos:end]
	}
	return get(0), get(1), get(2)
}
