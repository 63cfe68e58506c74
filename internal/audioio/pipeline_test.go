package audioio

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telematixsw/uhjstream/internal/uhj"
)

// writeStereoWAV creates a 16-bit stereo WAV file at path from interleaved
// samples in [-1, 1].
func writeStereoWAV(t *testing.T, path string, sampleRate int, left, right []float64) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(left)*2),
	}
	const scale = 32767.0
	for i := range left {
		buf.Data[2*i] = int(left[i] * scale)
		buf.Data[2*i+1] = int(right[i] * scale)
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func readOutputFLAC(t *testing.T, path string) (left, right []float64) {
	t.Helper()
	stream, err := flac.Open(path)
	require.NoError(t, err)
	defer stream.Close()

	const scale24 = 8388608.0
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}
		for _, s := range frame.Subframes[0].Samples {
			left = append(left, float64(s)/scale24)
		}
		for _, s := range frame.Subframes[1].Samples {
			right = append(right, float64(s)/scale24)
		}
	}
	return left, right
}

func TestEncodeFile_Silence(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "silence.wav")
	out := filepath.Join(dir, "silence.uhj.flac")

	const n = 48000
	writeStereoWAV(t, in, 48000, make([]float64, n), make([]float64, n))

	result, err := EncodeFile(in, out, -1)
	require.NoError(t, err)
	assert.Equal(t, uhj.LayoutStereo, result.Layout)
	assert.EqualValues(t, n, result.OutputSamples)

	left, right := readOutputFLAC(t, out)
	require.Len(t, left, n)
	require.Len(t, right, n)
	for i := range left {
		assert.InDelta(t, 0, left[i], 1.0/(1<<23))
		assert.InDelta(t, 0, right[i], 1.0/(1<<23))
	}
}

func TestEncodeFile_SineOnLeftChannel_EnergyPreserved(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sine.wav")
	out := filepath.Join(dir, "sine.uhj.flac")

	const n = 48000
	const sampleRate = 48000
	const freq = 1000.0
	left := make([]float64, n)
	right := make([]float64, n)
	for i := range left {
		left[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	writeStereoWAV(t, in, sampleRate, left, right)

	result, err := EncodeFile(in, out, -1)
	require.NoError(t, err)
	assert.EqualValues(t, n, result.OutputSamples)

	outLeft, outRight := readOutputFLAC(t, out)
	require.Len(t, outLeft, n)
	require.Len(t, outRight, n)

	identical := true
	for i := range outLeft {
		if outLeft[i] != outRight[i] {
			identical = false
			break
		}
	}
	assert.False(t, identical, "UHJ-encoded left/right should differ for a panned mono source")

	var inEnergy, outEnergy float64
	for i := range left {
		inEnergy += left[i] * left[i]
	}
	for i := range outLeft {
		outEnergy += outLeft[i]*outLeft[i] + outRight[i]*outRight[i]
	}
	// input energy counted once per (mono-equivalent) sample; output is
	// split across two channels, so compare against the same total. The
	// 2048-tap phase-shift filter's settling region at the start/end of a
	// single 1-second block contributes more edge error than the filter's
	// steady-state response alone, so the tolerance here is wider than the
	// ±1% steady-state figure.
	assert.InEpsilon(t, inEnergy, outEnergy, 0.05)
}
