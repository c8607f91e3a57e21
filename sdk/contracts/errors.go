package contracts

import "errors"

// Error taxonomy shared by every component. Callers wrap these with
// fmt.Errorf("%w: ...") and test them with errors.Is.
var (
	// ErrConfig reports an invalid key mapping or malformed configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrPortEnumeration reports that the transport could not list its ports.
	ErrPortEnumeration = errors.New("error listing MIDI ports")
	// ErrPortUnavailable reports that a port could not be opened.
	ErrPortUnavailable = errors.New("MIDI port unavailable")
	// ErrInvalidSelection reports a non-numeric or out-of-range port index.
	ErrInvalidSelection = errors.New("invalid port selection")
	// ErrTransport reports a failed send during dispatch.
	ErrTransport = errors.New("MIDI transport error")
	// ErrKeyboardUnavailable reports that no keyboard device could be opened.
	ErrKeyboardUnavailable = errors.New("keyboard unavailable")
	// ErrClosed is returned for events arriving after shutdown.
	ErrClosed = errors.New("dispatcher closed")
)
