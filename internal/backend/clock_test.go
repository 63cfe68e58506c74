package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestComputeClockLatency_FallbackBeforeStreamStarts(t *testing.T) {
	got := computeClockLatency(streamTime{rateDenom: 0}, 0, time.Time{}, time.Time{}, 4096, 48000)
	assert.Equal(t, saturatingDiv(4096, 48000), got.Latency)
	assert.GreaterOrEqual(t, got.Latency, time.Duration(0))
}

func TestComputeClockLatency_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		now := time.Unix(1_700_000_000, 0)
		st := streamTime{
			ticks:      rapid.Int64Range(0, 1<<40).Draw(rt, "ticks"),
			delayTicks: rapid.Int64Range(0, 1<<20).Draw(rt, "delayTicks"),
			rateNum:    1,
			rateDenom:  int64(rapid.SampledFrom([]int{44100, 48000, 96000}).Draw(rt, "rate")),
			now:        now,
		}
		mixOffsetMs := rapid.Int64Range(-1000, 1000).Draw(rt, "mixOffsetMs")
		mixTime := now.Add(time.Duration(mixOffsetMs) * time.Millisecond)

		got := computeClockLatency(st, 0, mixTime, now, 4096, int(st.rateDenom))
		assert.GreaterOrEqual(rt, got.Latency, time.Duration(0), "spec §8: getClockLatency().Latency >= 0 always")
	})
}

func TestSaturatingDiv_NoOverflowAtExtremeBufferSize(t *testing.T) {
	got := saturatingDiv(1<<40, 1)
	assert.Greater(t, got, time.Duration(0))
	assert.LessOrEqual(t, got, time.Duration(1)<<62)
}

func TestSaturatingDiv_ZeroFrequency(t *testing.T) {
	assert.Equal(t, time.Duration(0), saturatingDiv(4096, 0))
}
