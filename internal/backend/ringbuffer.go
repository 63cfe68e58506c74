package backend

import "sync/atomic"

/*------------------------------------------------------------------
 *
 * Purpose:	A lock-free single-producer/single-consumer ring buffer of
 *		interleaved float32 audio frames, feeding the Capture Stream
 *		(spec §3 "Ring buffer", §5 "lock-free SPSC").
 *
 *----------------------------------------------------------------*/

// RingBuffer is safe for exactly one producer goroutine calling Write and
// one consumer goroutine calling Read/Available concurrently; it is not
// safe for multiple producers or multiple consumers.
type RingBuffer struct {
	buf      []float32
	channels int
	mask     int // len(buf)/channels - 1; capacity in frames is a power of two

	writeIdx atomic.Uint64 // frames written, monotonically increasing
	readIdx  atomic.Uint64 // frames read, monotonically increasing
}

// NewRingBuffer allocates a ring buffer sized to hold at least minFrames
// frames of the given channel count, rounded up to the next power of two.
func NewRingBuffer(minFrames, channels int) *RingBuffer {
	capFrames := 1
	for capFrames < minFrames {
		capFrames <<= 1
	}
	return &RingBuffer{
		buf:      make([]float32, capFrames*channels),
		channels: channels,
		mask:     capFrames - 1,
	}
}

// Available returns the number of frames currently readable. Called from the
// consumer; may observe a larger value if the producer writes concurrently,
// per spec §8's stated invariant.
func (r *RingBuffer) Available() int {
	return int(r.writeIdx.Load() - r.readIdx.Load())
}

// Free returns the number of frames the producer may currently write without
// overrunning the consumer.
func (r *RingBuffer) Free() int {
	capFrames := r.mask + 1
	return capFrames - r.Available()
}

// Write copies up to len(frames)/channels frames into the ring, dropping
// (not blocking on) any that don't fit; it must only be called from the
// single producer (the real-time process callback) and performs no
// allocation.
func (r *RingBuffer) Write(frames []float32) (framesWritten int) {
	n := len(frames) / r.channels
	if avail := r.Free(); n > avail {
		n = avail
	}
	w := r.writeIdx.Load()
	for i := 0; i < n; i++ {
		slot := int(w+uint64(i)) & r.mask
		copy(r.buf[slot*r.channels:(slot+1)*r.channels], frames[i*r.channels:(i+1)*r.channels])
	}
	r.writeIdx.Store(w + uint64(n))
	return n
}

// Read copies up to n frames out of the ring into dst (which must be at
// least n*channels long) and advances the read cursor. It is the caller's
// responsibility to ensure n <= Available(), per spec §4.6.
func (r *RingBuffer) Read(dst []float32, n int) (framesRead int) {
	avail := r.Available()
	if n > avail {
		n = avail
	}
	readPos := r.readIdx.Load()
	for i := 0; i < n; i++ {
		slot := int(readPos+uint64(i)) & r.mask
		copy(dst[i*r.channels:(i+1)*r.channels], r.buf[slot*r.channels:(slot+1)*r.channels])
	}
	r.readIdx.Store(readPos + uint64(n))
	return n
}
