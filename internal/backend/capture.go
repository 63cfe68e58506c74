package backend

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Capture Stream — symmetric to Playback Stream, feeds a
 *		ring buffer the application drains at its own pace (spec
 *		§4.6).
 *
 *----------------------------------------------------------------*/

const monitorPrefix = "Monitor of "

// CaptureStream is a single capture device binding. The zero value is not
// usable; construct with OpenCapture.
type CaptureStream struct {
	em   *EventManager
	meta *MetadataProxy

	mu         sync.Mutex
	device     DeviceNode
	format     NegotiatedFormat
	updateSize int
	bufferSize int
	paStream   *portaudio.Stream
	state      streamState
	ring       *RingBuffer
	interleave []float32
	stats      *StreamStats

	DeviceName string
	Frequency  int
	FmtChans   Channels
	UpdateSize int
	BufferSize int
	Flags      Flags
}

// OpenCapture resolves a target device per spec §4.6: a name of the form
// "Monitor of <sink-name>" strips the prefix and matches against non-capture
// nodes (the source's sink-monitor alias); any other name, or an empty one,
// resolves exactly as Playback's does but restricted to capture nodes.
func OpenCapture(em *EventManager, meta *MetadataProxy, name string, flags Flags, requestedRate int) (*CaptureStream, error) {
	em.Lock()
	defer em.Unlock()

	var dev DeviceNode
	var err error
	if strings.HasPrefix(name, monitorPrefix) {
		sinkName := strings.TrimPrefix(name, monitorPrefix)
		dev, err = resolveTargetLocked(em, meta, sinkName, false)
	} else {
		dev, err = resolveTargetLocked(em, meta, name, true)
	}
	if err != nil {
		return nil, err
	}

	cs := &CaptureStream{
		em: em, meta: meta, device: dev, Flags: flags,
		stats: NewStreamStats("capture:"+dev.Name, StatsInterval),
	}
	if err := cs.reset(flags, requestedRate); err != nil {
		return nil, err
	}
	return cs, nil
}

func (cs *CaptureStream) reset(flags Flags, requestedRate int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.paStream != nil {
		_ = cs.paStream.Close()
		cs.paStream = nil
	}

	np := NewNodeProxy(cs.device)
	format, err := np.Resolve(flags, requestedRate, minOutputRate, maxOutputRate)
	if err != nil {
		cs.state = stateError
		return err
	}
	cs.format = format

	update := defaultUpdateSize
	if cs.device.SampleRate > 0 {
		update = clampInt(defaultUpdateSize*format.SampleRate/cs.device.SampleRate, minUpdateSize, maxUpdateSize)
	}
	cs.updateSize = update
	cs.bufferSize = 2 * update

	nchan := format.Channels.Count()
	if nchan == 0 {
		nchan = 2
	}
	cs.interleave = make([]float32, cs.updateSize*nchan)
	cs.ring = NewRingBuffer(max(cs.bufferSize, format.SampleRate/10), nchan)

	params := portaudio.HighLatencyParameters(paDeviceFor(cs.device), nil)
	params.Input.Channels = nchan
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = cs.updateSize

	stream, err := portaudio.OpenStream(params, cs.processCallback)
	if err != nil {
		cs.state = stateError
		return wrapDeviceError(err)
	}
	cs.paStream = stream
	cs.state = statePaused

	cs.DeviceName = cs.device.Name
	cs.Frequency = format.SampleRate
	cs.FmtChans = format.Channels
	cs.UpdateSize = cs.updateSize
	cs.BufferSize = cs.bufferSize
	return nil
}

// processCallback runs on portaudio's real-time thread: it is the ring
// buffer's sole producer and must not block (spec §5 "the RT thread is the
// sole producer").
func (cs *CaptureStream) processCallback(in []float32) {
	n := cs.ring.Write(in)
	cs.stats.Record(n)
}

// Start activates the stream.
func (cs *CaptureStream) Start() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.paStream == nil {
		return errors.Wrap(ErrDeviceError, "capture: start called before reset")
	}
	if err := cs.paStream.Start(); err != nil {
		cs.state = stateError
		return wrapDeviceError(err)
	}
	cs.state = stateStreaming
	tryElevatePriority()
	cs.stats.Start(context.Background())
	return nil
}

// Stop deactivates the stream.
func (cs *CaptureStream) Stop() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.stats.Stop()
	if cs.paStream == nil {
		return nil
	}
	if err := cs.paStream.Stop(); err != nil {
		cs.state = stateError
		return wrapDeviceError(err)
	}
	cs.state = statePaused
	return nil
}

// Close destroys the stream under the event-manager lock.
func (cs *CaptureStream) Close() error {
	cs.em.Lock()
	defer cs.em.Unlock()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.stats.Stop()
	if cs.paStream == nil {
		return nil
	}
	err := cs.paStream.Close()
	cs.paStream = nil
	if err != nil {
		log.Warn("capture: close stream", "err", err)
	}
	return nil
}

// AvailableSamples returns the number of frames currently readable from the
// ring buffer (spec §4.6 "availableSamples()").
func (cs *CaptureStream) AvailableSamples() int {
	return cs.ring.Available()
}

// CaptureSamples reads n interleaved frames into buf (which must be at
// least n*channels long). The caller must ensure n <= AvailableSamples()
// (spec §4.6).
func (cs *CaptureStream) CaptureSamples(buf []float32, n int) int {
	return cs.ring.Read(buf, n)
}
