package backend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Periodic stream statistics reporting, adapted from the
 *		sample-rate/error troubleshooting log the original project
 *		prints for its own audio devices.
 *
 * Description:	The source's audio_stats() suppresses its first report
 *		(the first interval is never aligned to a clean boundary,
 *		so its rate estimate is misleadingly off) and otherwise
 *		reports an average sample rate plus an error count once
 *		per configured interval. StreamStats keeps that shape, but
 *		splits it across the real-time/non-real-time boundary: Record
 *		only bumps atomic counters and is safe to call from
 *		portaudio's process callback (spec §4.5, §9 "Real-time
 *		process callback: must be allocation-free and lock-free");
 *		a separate goroutine launched by Start wakes on its own
 *		ticker, drains the counters and does the actual logging.
 *
 *----------------------------------------------------------------*/

// StreamStats accumulates frame counts and xrun counts for one stream and
// logs a summary once per Interval, suppressing the first report the way
// the original device-level stats suppress a misleadingly-short opening
// window.
type StreamStats struct {
	Label    string
	Interval time.Duration

	sampleCount atomic.Int64
	xrunCount   atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStreamStats constructs a stats tracker; Interval <= 0 disables
// reporting entirely (Record becomes a no-op and Start launches nothing).
func NewStreamStats(label string, interval time.Duration) *StreamStats {
	return &StreamStats{Label: label, Interval: interval}
}

// Record adds nsamp frames processed on this tick, or counts an xrun when
// nsamp is 0. Safe to call from the real-time process callback: it only
// touches atomic counters, never blocks, allocates, or takes a mutex.
func (s *StreamStats) Record(nsamp int) {
	if s.Interval <= 0 {
		return
	}
	if nsamp > 0 {
		s.sampleCount.Add(int64(nsamp))
	} else {
		s.xrunCount.Add(1)
	}
}

// Start launches the background reporter goroutine, stopped by Stop. Calling
// Start when Interval <= 0 is a no-op.
func (s *StreamStats) Start(ctx context.Context) {
	if s.Interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.reportLoop(loopCtx)
}

// Stop halts the background reporter goroutine and waits for it to exit.
func (s *StreamStats) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// reportLoop runs off the real-time thread, draining the atomic counters and
// logging at Interval. The first interval is rarely aligned to a clean
// boundary, so its report is suppressed, matching the source's behavior.
func (s *StreamStats) reportLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	suppressFirst := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		samples := s.sampleCount.Swap(0)
		xruns := s.xrunCount.Swap(0)
		if suppressFirst {
			suppressFirst = false
			continue
		}
		rate := float64(samples) / 1000.0 / s.Interval.Seconds()
		log.Debug("stream stats", "stream", s.Label, "rate_khz", rate, "xruns", xruns)
	}
}
