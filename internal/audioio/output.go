package audioio

/*------------------------------------------------------------------
 *
 * Purpose:	Output Adapter — write a 2-channel stereo signal as 24-bit
 *		PCM in a FLAC container.
 *
 *----------------------------------------------------------------*/

import (
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
	"github.com/pkg/errors"

	"github.com/telematixsw/uhjstream/internal/uhj"
)

const outputBitsPerSample = 24

// Sink writes a 2-channel 24-bit FLAC file, one block of samples at a time.
type Sink struct {
	f   *os.File
	enc *flac.Encoder

	written int64
	closed  bool
}

// CreateSink opens path for writing and prepares a 2-channel FLAC encoder at
// the given sample rate. nSamples, if known, populates the StreamInfo total
// sample count; 0 is valid for an unknown/streaming length.
func CreateSink(path string, sampleRate int, nSamples uint64) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "audioio: create output file")
	}

	info := &meta.StreamInfo{
		MinBlockSize:  uhj.BlockSize,
		MaxBlockSize:  uhj.BlockSize,
		SampleRate:    uint32(sampleRate),
		ChannelCount:  2,
		BitsPerSample: outputBitsPerSample,
		SampleCount:   nSamples,
	}
	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "audioio: create FLAC encoder")
	}
	return &Sink{f: f, enc: enc}, nil
}

// WriteBlock clamps and quantizes a stereo block to 24-bit PCM and writes it
// as one FLAC frame.
func (s *Sink) WriteBlock(left, right []float64) error {
	n := len(left)
	samples := make([][]int32, 2)
	samples[0] = make([]int32, n)
	samples[1] = make([]int32, n)
	const scale = 8388608.0 // 2^23
	for i := 0; i < n; i++ {
		samples[0][i] = int32(uhj.ClampTo24Bit(left[i]) * scale)
		samples[1][i] = int32(uhj.ClampTo24Bit(right[i]) * scale)
	}
	if err := s.enc.Write(samples); err != nil {
		return errors.Wrap(err, "audioio: write FLAC frame")
	}
	s.written += int64(n)
	return nil
}

// Written reports the number of stereo sample frames written so far.
func (s *Sink) Written() int64 { return s.written }

// Close flushes the encoder, which closes the underlying file itself. It is
// safe to call more than once; only the first call does anything.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Wrap(s.enc.Close(), "audioio: close FLAC encoder")
}
