package contracts

// Key identifies a physical key. On Linux it is the evdev EV_KEY code.
type Key uint16

// Note is a MIDI note number in [0,127].
type Note uint8

// MaxNote is the highest valid MIDI note number.
const MaxNote = 127

// KeyHandler is invoked once per key transition. It runs on the event
// source's reader goroutine and must not block for long.
type KeyHandler func(key Key)

// Subscription is returned by handler registration. Close unregisters the
// handler; once Close returns no further invocations happen.
type Subscription interface {
	Close() error
}

// KeyboardSource delivers asynchronous key-down and key-up notifications.
type KeyboardSource interface {
	RegisterKeyDown(handler KeyHandler) (Subscription, error)
	RegisterKeyUp(handler KeyHandler) (Subscription, error)
	Close() error
}
