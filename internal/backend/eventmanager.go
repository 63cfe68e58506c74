package backend

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Event Manager — owns the connection to the audio server,
 *		runs its cooperative event loop on a dedicated goroutine,
 *		and maintains the device registry (spec §4.2).
 *
 * Description:	Real PipeWire exposes a push-based registry over its
 *		native protocol: the server emits global-add/global-remove
 *		events as they happen, and a client thread dispatches them
 *		on an event loop it drives itself. portaudio offers no such
 *		push channel, only a point-in-time device snapshot, so the
 *		loop here polls that snapshot on every iteration and diffs
 *		it against the previous one to synthesize the same
 *		add/remove events a registry listener would have received.
 *		Everything above this diff — wait_for_init, the lock
 *		guarding registry reads, DeviceList and the default device
 *		getters — behaves exactly as spec'd.
 *
 *----------------------------------------------------------------*/

// EventManager owns the registry and drives the cooperative event loop that
// keeps it current, mirroring PipeWire's thread_loop + registry pairing.
type EventManager struct {
	mu       sync.Mutex
	cond     *sync.Cond
	devices  map[uint32]DeviceNode
	initDone bool

	defaultSink   uint32
	defaultSource uint32

	cancel context.CancelFunc
	wg     sync.WaitGroup
	wake   chan struct{} // buffered(1); external hotplug sources nudge an early rescan

	scan func() ([]DeviceNode, error) // overridable for tests; defaults to portaudioScan
}

// NewEventManager constructs an EventManager without starting its loop;
// callers must call Start to connect to the server.
func NewEventManager() *EventManager {
	em := &EventManager{
		devices: make(map[uint32]DeviceNode),
		scan:    portaudioScan,
		wake:    make(chan struct{}, 1),
	}
	em.cond = sync.NewCond(&em.mu)
	return em
}

// Start connects to the audio server and launches the event-loop goroutine,
// blocking until the first registry sync completes (spec §4.2
// "wait_for_init blocks the caller until the first sync round-trip
// completes"). If the server is unavailable, it returns a wrapped
// ErrServerUnavailable and the manager is left unstarted.
func (em *EventManager) Start(ctx context.Context) error {
	initial, err := em.scan()
	if err != nil {
		return errors.Wrap(ErrServerUnavailable, err.Error())
	}

	loopCtx, cancel := context.WithCancel(ctx)
	em.cancel = cancel

	em.mu.Lock()
	em.applyLocked(initial)
	em.initDone = true
	em.mu.Unlock()
	em.cond.Broadcast()

	em.wg.Add(1)
	go em.loop(loopCtx)
	return nil
}

// TriggerRescan nudges the event loop to re-scan and diff the registry
// immediately rather than waiting for the next poll tick. Supplementary
// hotplug sources (e.g. udev on Linux) call this on a device-change
// notification; it is safe to call before the loop starts or after Stop.
func (em *EventManager) TriggerRescan() {
	select {
	case em.wake <- struct{}{}:
	default:
	}
}

// Stop cancels the event loop and waits for it to exit.
func (em *EventManager) Stop() {
	if em.cancel != nil {
		em.cancel()
	}
	em.wg.Wait()
}

// loop is the cooperative event loop: it polls the server snapshot and
// applies any diff under lock, then signals waiters, once per tick. A real
// PipeWire loop blocks in poll() until the server has something to say;
// this one instead paces itself against pollInterval since portaudio has no
// equivalent wakeup primitive.
func (em *EventManager) loop(ctx context.Context) {
	defer em.wg.Done()
	ticker := newPollTicker()
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		case <-em.wake:
		}
		snap, err := em.scan()
		if err != nil {
			log.Warn("event loop: device scan failed", "err", err)
			continue
		}
		em.mu.Lock()
		em.applyLocked(snap)
		em.mu.Unlock()
		em.cond.Broadcast()
	}
}

// applyLocked replaces the registry contents with snap, logging each added
// or removed global the way the server's registry listener would (spec §4.2
// "global-add"/"global-remove"). Callers must hold em.mu.
func (em *EventManager) applyLocked(snap []DeviceNode) {
	seen := make(map[uint32]struct{}, len(snap))
	for _, d := range snap {
		seen[d.ID] = struct{}{}
		if old, ok := em.devices[d.ID]; !ok {
			log.Info("global-add", "id", d.ID, "name", d.Name, "capture", d.IsCapture)
		} else if old != d {
			log.Debug("global-update", "id", d.ID, "name", d.Name)
		}
		em.devices[d.ID] = d
		if d.IsDefault && !d.IsCapture {
			em.defaultSink = d.ID
		}
		if d.IsDefault && d.IsCapture {
			em.defaultSource = d.ID
		}
	}
	for id, old := range em.devices {
		if _, ok := seen[id]; !ok {
			log.Info("global-remove", "id", id, "name", old.Name)
			delete(em.devices, id)
		}
	}
}

// Lock acquires the registry lock, matching pw_thread_loop_lock's role of
// letting a non-loop thread read registry state without racing the loop
// goroutine (spec §4.2 "lock/unlock bracket every registry read").
func (em *EventManager) Lock() { em.mu.Lock() }

// Unlock releases the registry lock taken by Lock.
func (em *EventManager) Unlock() { em.mu.Unlock() }

// WaitForInit blocks until the first registry sync has completed, or ctx is
// done. It must be called without the registry lock held.
func (em *EventManager) WaitForInit(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		em.mu.Lock()
		for !em.initDone {
			em.cond.Wait()
		}
		em.mu.Unlock()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DeviceList returns a snapshot copy of the current registry, optionally
// filtered to capture-only or playback-only devices, sorted with the
// default device first and then by ID. Map iteration order is otherwise
// randomized per call, and callers such as resolveTargetLocked rely on a
// stable, deterministic "first" device when no name or default matches
// (spec §4.5). Callers needn't hold Lock themselves; DeviceList takes it
// internally.
func (em *EventManager) DeviceList(capture bool) []DeviceNode {
	em.mu.Lock()
	defer em.mu.Unlock()
	out := make([]DeviceNode, 0, len(em.devices))
	for _, d := range em.devices {
		if d.IsCapture == capture {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DefaultSinkID returns the registry ID of the default playback device, or 0
// if none has been observed yet.
func (em *EventManager) DefaultSinkID() uint32 {
	em.mu.Lock()
	defer em.mu.Unlock()
	return em.defaultSink
}

// DefaultSourceID returns the registry ID of the default capture device, or
// 0 if none has been observed yet.
func (em *EventManager) DefaultSourceID() uint32 {
	em.mu.Lock()
	defer em.mu.Unlock()
	return em.defaultSource
}

// Device looks up a single device by ID.
func (em *EventManager) Device(id uint32) (DeviceNode, bool) {
	em.mu.Lock()
	defer em.mu.Unlock()
	d, ok := em.devices[id]
	return d, ok
}
