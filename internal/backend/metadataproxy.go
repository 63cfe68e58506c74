package backend

import "sync"

/*------------------------------------------------------------------
 *
 * Purpose:	Metadata Proxy — tracks the server's current default
 *		sink/source device names (spec §4.4).
 *
 * Description:	Real PipeWire delivers default-device changes as
 *		property updates on a well-known "default" metadata
 *		object, including an explicit null update that clears a
 *		name. The Event Manager's diff-based poller can only tell
 *		us the *current* default device's registry ID (spec
 *		§4.2/§4.4), so this proxy's job is just the name lookup
 *		and the clear-on-absence behavior a null update would have
 *		produced natively.
 *
 *----------------------------------------------------------------*/

// MetadataProxy exposes the default sink/source display names, updated from
// an EventManager's registry.
type MetadataProxy struct {
	em *EventManager

	mu              sync.RWMutex
	sink            string
	source          string
	preferredSink   string
	preferredSource string
}

// NewMetadataProxy attaches to em; callers should call Refresh after
// WaitForInit and on every subsequent registry change of interest.
func NewMetadataProxy(em *EventManager) *MetadataProxy {
	return &MetadataProxy{em: em}
}

// SetPreferredSink overrides the server's reported default sink with an
// exact device-name match, taking priority over DefaultSinkID whenever a
// device by that name is present (spec config Non-goal leaves room for a
// user-configured preference; see internal/config.Config.PreferredSink).
// An empty name clears the override.
func (m *MetadataProxy) SetPreferredSink(name string) {
	m.mu.Lock()
	m.preferredSink = name
	m.mu.Unlock()
}

// SetPreferredSource overrides the server's reported default source,
// symmetric to SetPreferredSink.
func (m *MetadataProxy) SetPreferredSource(name string) {
	m.mu.Lock()
	m.preferredSource = name
	m.mu.Unlock()
}

// Refresh re-reads the default sink/source names from the registry,
// clearing either name if its device has disappeared — the polling
// equivalent of a null metadata property update (spec §4.4 "if type is
// null, clear the corresponding default name"). A configured preferred name
// wins over the server's own default whenever a device by that name is
// currently present.
func (m *MetadataProxy) Refresh() {
	var sink, source string
	if id := m.em.DefaultSinkID(); id != 0 {
		if d, ok := m.em.Device(id); ok {
			sink = d.Name
		}
	}
	if id := m.em.DefaultSourceID(); id != 0 {
		if d, ok := m.em.Device(id); ok {
			source = d.Name
		}
	}

	m.mu.RLock()
	preferredSink, preferredSource := m.preferredSink, m.preferredSource
	m.mu.RUnlock()
	if preferredSink != "" && deviceNamed(m.em, false, preferredSink) {
		sink = preferredSink
	}
	if preferredSource != "" && deviceNamed(m.em, true, preferredSource) {
		source = preferredSource
	}

	m.mu.Lock()
	m.sink, m.source = sink, source
	m.mu.Unlock()
}

// deviceNamed reports whether a device with the given name is currently
// registered on the given (capture/playback) side.
func deviceNamed(em *EventManager, capture bool, name string) bool {
	for _, d := range em.DeviceList(capture) {
		if d.Name == name {
			return true
		}
	}
	return false
}

// DefaultSinkDev returns the current default playback device's display
// name, or "" if none is known.
func (m *MetadataProxy) DefaultSinkDev() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sink
}

// DefaultSourceDev returns the current default capture device's display
// name, or "" if none is known.
func (m *MetadataProxy) DefaultSourceDev() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source
}
