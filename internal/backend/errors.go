package backend

import "github.com/pkg/errors"

// Sentinel errors forming the backend's error taxonomy (spec §7). Callers
// should compare with errors.Is; server-side failures are wrapped around one
// of these with errors.Wrap so the underlying cause survives for logging.
var (
	// ErrNoDevice is returned when no device matches an open() request.
	ErrNoDevice = errors.New("backend: no matching device")
	// ErrDeviceError is returned when a server call fails or a stream enters
	// the Error state.
	ErrDeviceError = errors.New("backend: device error")
	// ErrServerUnavailable is returned when connecting to, or starting the
	// loop against, the audio server fails during init.
	ErrServerUnavailable = errors.New("backend: audio server unavailable")
)

// wrapDeviceError wraps cause as an ErrDeviceError, preserving the server's
// own error string when available, per spec §7 "surfaced as DeviceError with
// the server's error string when available".
func wrapDeviceError(cause error) error {
	if cause == nil {
		return ErrDeviceError
	}
	return errors.Wrapf(ErrDeviceError, "%s", cause)
}
