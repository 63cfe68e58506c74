package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRingBuffer_WriteReadRoundTrip(t *testing.T) {
	rb := NewRingBuffer(16, 2)
	frames := []float32{1, 2, 3, 4, 5, 6}
	n := rb.Write(frames)
	require.Equal(t, 3, n)
	require.Equal(t, 3, rb.Available())

	out := make([]float32, 6)
	got := rb.Read(out, 3)
	require.Equal(t, 3, got)
	assert.Equal(t, frames, out)
	assert.Equal(t, 0, rb.Available())
}

func TestRingBuffer_WriteDropsExcessPastCapacity(t *testing.T) {
	rb := NewRingBuffer(4, 1) // rounds up to capacity 4
	n := rb.Write(make([]float32, 10))
	assert.Equal(t, 4, n)
	assert.Equal(t, 0, rb.Free())
}

// TestRingBuffer_AvailableMonotonic exercises the spec §8 backend invariant
// "availableSamples after captureSamples(_, n) strictly decreases by at
// least n" by checking the symmetric property on a single-threaded
// sequence of writes and reads of arbitrary sizes.
func TestRingBuffer_AvailableMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		channels := rapid.IntRange(1, 4).Draw(rt, "channels")
		rb := NewRingBuffer(64, channels)

		writeLens := rapid.SliceOfN(rapid.IntRange(0, 50), 1, 10).Draw(rt, "writeLens")
		for _, wl := range writeLens {
			before := rb.Available()
			written := rb.Write(make([]float32, wl*channels))
			assert.Equal(rt, before+written, rb.Available())
			if avail := rb.Available(); avail > 0 {
				readN := avail / 2
				got := rb.Read(make([]float32, avail*channels), readN)
				assert.Equal(rt, readN, got)
				assert.Equal(rt, avail-readN, rb.Available())
			}
		}
	})
}
