package backend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Playback Stream — owns one output device stream, adapts
 *		between the application's render callback and portaudio's
 *		own buffer size, and answers clock-latency queries (spec
 *		§4.5).
 *
 *----------------------------------------------------------------*/

// RenderFunc is pulled by the Playback Stream once per process tick to fill
// planar, one slice per channel, with exactly n frames (spec §6
// "renderSamples(planar_ptrs, n_frames) pulled by playback; the application
// provides this").
type RenderFunc func(planar [][]float32, n int)

const (
	minUpdateSize = 64
	maxUpdateSize = 8192
)

// PlaybackStream is a single playback device binding. The zero value is not
// usable; construct with OpenPlayback.
type PlaybackStream struct {
	em   *EventManager
	meta *MetadataProxy

	mu         sync.Mutex // guards everything below, standing in for the per-stream loop lock
	device     DeviceNode
	format     NegotiatedFormat
	updateSize int
	bufferSize int
	paStream   *portaudio.Stream
	state      streamState
	timeBase   time.Duration
	planar     [][]float32
	render     RenderFunc
	stats      *StreamStats

	framesSinceStart atomic.Int64
	startedAt        time.Time

	DeviceName string
	Frequency  int
	FmtChans   Channels
	UpdateSize int
	BufferSize int
	Flags      Flags
	MixCount   atomic.Uint64
}

type streamState int

const (
	stateUninit streamState = iota
	statePaused
	stateStreaming
	stateError
)

// OpenPlayback resolves a target device per spec §4.5 "open": an empty name
// prefers the metadata proxy's default sink, otherwise the first non-capture
// node; a non-empty name requires an exact match on a non-capture node.
func OpenPlayback(em *EventManager, meta *MetadataProxy, name string, flags Flags, requestedRate int) (*PlaybackStream, error) {
	em.Lock()
	defer em.Unlock()

	dev, err := resolveTargetLocked(em, meta, name, false)
	if err != nil {
		return nil, err
	}

	ps := &PlaybackStream{
		em:     em,
		meta:   meta,
		device: dev,
		Flags:  flags,
		stats:  NewStreamStats("playback:"+dev.Name, StatsInterval),
	}
	if err := ps.reset(flags, requestedRate); err != nil {
		return nil, err
	}
	return ps, nil
}

// resolveTargetLocked implements the shared open()/Monitor-of target
// resolution for both playback and capture (spec §4.5, §4.6). Callers must
// hold em's lock.
func resolveTargetLocked(em *EventManager, meta *MetadataProxy, name string, capture bool) (DeviceNode, error) {
	if name == "" {
		var preferred string
		if capture {
			preferred = meta.DefaultSourceDev()
		} else {
			preferred = meta.DefaultSinkDev()
		}
		for _, d := range em.DeviceList(capture) {
			if preferred != "" && d.Name == preferred {
				return d, nil
			}
		}
		list := em.DeviceList(capture)
		if len(list) > 0 {
			return list[0], nil
		}
		return DeviceNode{}, errors.Wrap(ErrNoDevice, "no default device available")
	}
	for _, d := range em.DeviceList(capture) {
		if d.Name == name {
			return d, nil
		}
	}
	return DeviceNode{}, errors.Wrapf(ErrNoDevice, "no device named %q", name)
}

// reset tears down any prior stream and negotiates a fresh format, per spec
// §4.5 "reset".
func (ps *PlaybackStream) reset(flags Flags, requestedRate int) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.paStream != nil {
		_ = ps.paStream.Close()
		ps.paStream = nil
	}

	np := NewNodeProxy(ps.device)
	format, err := np.Resolve(flags, requestedRate, minOutputRate, maxOutputRate)
	if err != nil {
		ps.state = stateError
		return err
	}
	ps.format = format

	update := defaultUpdateSize
	if ps.device.SampleRate > 0 {
		update = clampInt(defaultUpdateSize*format.SampleRate/ps.device.SampleRate, minUpdateSize, maxUpdateSize)
	}
	ps.updateSize = update
	ps.bufferSize = 2 * update

	nchan := format.Channels.Count()
	if nchan == 0 {
		nchan = 2
	}
	ps.planar = make([][]float32, nchan)
	for i := range ps.planar {
		ps.planar[i] = make([]float32, ps.updateSize)
	}

	params := portaudio.HighLatencyParameters(nil, paDeviceFor(ps.device))
	params.Output.Channels = nchan
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = ps.updateSize

	stream, err := portaudio.OpenStream(params, ps.processCallback)
	if err != nil {
		ps.state = stateError
		return wrapDeviceError(err)
	}
	ps.paStream = stream
	ps.state = statePaused

	ps.DeviceName = ps.device.Name
	ps.Frequency = format.SampleRate
	ps.FmtChans = format.Channels
	ps.UpdateSize = ps.updateSize
	ps.BufferSize = ps.bufferSize
	return nil
}

// processCallback runs on portaudio's real-time thread (spec §4.5 "Process
// callback"): it must not block, allocate, or take the event-manager lock.
// It pulls len(out)/nchan frames, capped at the preallocated planar buffers'
// length, from the application's RenderFunc into those buffers, then
// interleaves them into out.
func (ps *PlaybackStream) processCallback(out []float32) {
	nchan := len(ps.planar)
	if nchan == 0 {
		return
	}
	n := len(out) / nchan
	for _, ch := range ps.planar {
		if len(ch) < n {
			n = len(ch)
		}
	}
	if ps.render != nil {
		ps.render(ps.planar, n)
	} else {
		for _, ch := range ps.planar {
			for i := range ch[:n] {
				ch[i] = 0
			}
		}
	}
	for i := 0; i < n; i++ {
		for c := 0; c < nchan; c++ {
			out[i*nchan+c] = ps.planar[c][i]
		}
	}
	ps.framesSinceStart.Add(int64(n))
	ps.MixCount.Add(1)
	ps.stats.Record(n)
}

// SetRenderFunc installs the application's sample source, called once
// before Start.
func (ps *PlaybackStream) SetRenderFunc(fn RenderFunc) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.render = fn
}

// Start activates the stream (spec §4.5 "start").
func (ps *PlaybackStream) Start() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.paStream == nil {
		return errors.Wrap(ErrDeviceError, "playback: start called before reset")
	}
	if err := ps.paStream.Start(); err != nil {
		ps.state = stateError
		return wrapDeviceError(err)
	}
	ps.state = stateStreaming
	ps.startedAt = time.Now()
	ps.framesSinceStart.Store(0)
	tryElevatePriority()
	ps.stats.Start(context.Background())
	return nil
}

// Stop deactivates the stream (spec §4.5 "stop").
func (ps *PlaybackStream) Stop() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.stats.Stop()
	if ps.paStream == nil {
		return nil
	}
	if err := ps.paStream.Stop(); err != nil {
		ps.state = stateError
		return wrapDeviceError(err)
	}
	ps.state = statePaused
	return nil
}

// Close destroys the stream under the event-manager lock (spec §4.5
// "destructor").
func (ps *PlaybackStream) Close() error {
	ps.em.Lock()
	defer ps.em.Unlock()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.stats.Stop()
	if ps.paStream == nil {
		return nil
	}
	err := ps.paStream.Close()
	ps.paStream = nil
	if err != nil {
		log.Warn("playback: close stream", "err", err)
	}
	return nil
}

// GetClockLatency implements spec §4.5's clock-latency query. While the
// stream is not streaming (before Start, after Stop) it falls back to
// BufferSize/Frequency, matching the source's rate.denom < 1 path; once
// started it computes the latency from the frames rendered since Start.
func (ps *PlaybackStream) GetClockLatency() ClockLatency {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.state != stateStreaming || ps.Frequency <= 0 {
		return ClockLatency{Latency: saturatingDiv(ps.bufferSize, ps.Frequency)}
	}

	frames := ps.framesSinceStart.Load()
	now := monotonicNow()
	st := streamTime{
		ticks:     frames,
		rateNum:   1,
		rateDenom: int64(ps.Frequency),
		now:       now,
	}
	// in the absence of a real mixer reference clock, mixer time and the
	// monotonic sample are taken as the same instant.
	return computeClockLatency(st, ps.timeBase, now, now, ps.bufferSize, ps.Frequency)
}

const (
	defaultUpdateSize    = 1024
	minOutputRate        = 8000
	maxOutputRate        = 192000
	defaultStatsInterval = 100 * time.Second
)

// StatsInterval is the reporting period OpenPlayback/OpenCapture hand to
// every new stream's StreamStats. It's a package-level setting rather than
// a per-call argument because it comes from startup configuration (spec
// internal/config.Config.StatsIntervalSeconds), not per-stream policy;
// SetStatsInterval should be called once before opening any stream.
var StatsInterval = time.Duration(defaultStatsInterval)

// SetStatsInterval overrides StatsInterval; interval <= 0 disables stream
// stats reporting for every stream opened afterward.
func SetStatsInterval(interval time.Duration) {
	StatsInterval = interval
}

func paDeviceFor(d DeviceNode) *portaudio.DeviceInfo {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}
	for _, pd := range devices {
		if pd.Name == d.Name {
			return pd
		}
	}
	return nil
}
