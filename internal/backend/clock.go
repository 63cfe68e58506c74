package backend

import "time"

/*------------------------------------------------------------------
 *
 * Purpose:	Clock-latency computation (spec §4.5, §9 Open Question on
 *		nanosecond overflow).
 *
 * Description:	The source formula combines a stream's tick/delay/rate
 *		readout, the mixer's own time base, and monotonic wall
 *		time, with an explicitly flagged overflow risk in
 *		`seconds(BufferSize) / Frequency` at large buffer sizes.
 *		saturatingDiv splits the intermediate to avoid it, per
 *		the spec's resolution to use "a saturating or widened
 *		intermediate" rather than preserve the overflow verbatim.
 *
 *----------------------------------------------------------------*/

// streamTime is one readout of a stream's clock, analogous to PipeWire's
// pw_time: ticks elapsed, the pending tick's delay in denom units, and the
// rate those ticks are expressed in.
type streamTime struct {
	ticks      int64
	delayTicks int64
	rateNum    int64
	rateDenom  int64
	now        time.Time
}

// computeClockLatency implements the spec §4.5 formula. timeBase is the
// nanosecond offset accumulated across stream resets; mixTime and
// monoClock are a concurrently-sampled pair (mixer time, wall clock) taken
// at the same instant as st.now. If st.rateDenom < 1 the stream has not
// started ticking yet and the fallback BufferSize/Frequency path applies.
func computeClockLatency(st streamTime, timeBase time.Duration, mixTime, monoClock time.Time, bufferSize, frequency int) ClockLatency {
	if st.rateDenom < 1 {
		return ClockLatency{
			ClockTime: 0,
			Latency:   saturatingDiv(bufferSize, frequency),
		}
	}

	secPart := (st.ticks / st.rateDenom) * st.rateNum
	remTicks := st.ticks % st.rateDenom
	nsPart := (remTicks * st.rateNum * int64(time.Second)) / st.rateDenom
	curtic := timeBase + time.Duration(secPart)*time.Second + time.Duration(nsPart)

	delayNs := (st.delayTicks * st.rateNum * int64(time.Second)) / st.rateDenom
	delay := time.Duration(delayNs)

	mixOffset := mixTime.Sub(st.now.Add(curtic - timeBase))
	if mixOffset > 0 {
		delay += mixOffset
	}
	delay -= monoClock.Sub(st.now)

	if delay < 0 {
		delay = 0
	}
	return ClockLatency{ClockTime: time.Duration(mixTime.UnixNano()), Latency: delay}
}

// saturatingDiv computes (bufferSize seconds) / frequency as a
// time.Duration without overflowing int64 nanoseconds for buffer sizes the
// spec's own source would silently wrap on.
func saturatingDiv(bufferSize, frequency int) time.Duration {
	if frequency <= 0 {
		return 0
	}
	const maxNanos = int64(1) << 62
	secNanos := int64(time.Second)
	// bufferSize*secNanos overflows int64 once bufferSize exceeds about
	// 9.2e9 frames; compute in two steps and saturate rather than wrap.
	whole := int64(bufferSize) / int64(frequency)
	rem := int64(bufferSize) % int64(frequency)
	if whole > maxNanos/secNanos {
		return time.Duration(maxNanos)
	}
	nanos := whole*secNanos + (rem*secNanos)/int64(frequency)
	if nanos < 0 {
		return time.Duration(maxNanos)
	}
	return time.Duration(nanos)
}
