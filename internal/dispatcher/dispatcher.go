// Package dispatcher turns key transitions into Note On / Note Off messages.
//
// A Dispatcher owns the output connection and the per-note sounding flags as
// one unit behind a single mutex. Every event holds the lock from lookup to
// state update, so concurrent key-down and key-up callbacks can neither lose
// a state change nor interleave message bytes on the wire.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/keymidi/internal/keymap"
	"github.com/leandrodaf/keymidi/internal/logger"
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"go.uber.org/multierr"
)

// Dispatcher maps keys to notes and sends them on an output connection.
type Dispatcher struct {
	mapping  *keymap.Mapping
	velocity uint8
	logger   contracts.Logger

	mu       sync.Mutex // guards everything below
	out      contracts.Sender
	sounding map[contracts.Note]bool
	closed   bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithVelocity sets the velocity byte used for Note On and Note Off.
func WithVelocity(v uint8) Option {
	return func(d *Dispatcher) {
		d.velocity = v
	}
}

// WithLogger sets the logger used for dropped events and shutdown.
func WithLogger(l contracts.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New creates a Dispatcher with every mapped note idle.
func New(mapping *keymap.Mapping, out contracts.Sender, opts ...Option) (*Dispatcher, error) {
	if mapping == nil {
		return nil, fmt.Errorf("%w: nil key mapping", contracts.ErrConfig)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: nil output connection", contracts.ErrConfig)
	}

	d := &Dispatcher{
		mapping:  mapping,
		velocity: DefaultVelocity,
		out:      out,
		sounding: make(map[contracts.Note]bool, mapping.Len()),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.velocity == 0 || d.velocity > 127 {
		return nil, fmt.Errorf("%w: velocity %d outside 1..127", contracts.ErrConfig, d.velocity)
	}
	if d.logger == nil {
		d.logger = logger.NewNopLogger()
	}
	for _, note := range mapping.Notes() {
		d.sounding[note] = false
	}
	return d, nil
}

// OnKeyDown sends Note On for key unless the key is unmapped or its note is
// already sounding. A failed send leaves the note idle and returns an error
// wrapping contracts.ErrTransport.
func (d *Dispatcher) OnKeyDown(key contracts.Key) error {
	return d.transition(key, true)
}

// OnKeyUp sends Note Off for key if its note is sounding.
func (d *Dispatcher) OnKeyUp(key contracts.Key) error {
	return d.transition(key, false)
}

func (d *Dispatcher) transition(key contracts.Key, down bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return contracts.ErrClosed
	}
	note, ok := d.mapping.Lookup(key)
	if !ok {
		return nil
	}
	// Key repeat while held, or a release with nothing sounding.
	if d.sounding[note] == down {
		return nil
	}

	msg, kind := noteOff(note, d.velocity), "note off"
	if down {
		msg, kind = noteOn(note, d.velocity), "note on"
	}
	if err := d.out.Send(msg); err != nil {
		return fmt.Errorf("%w: %s %d: %v", contracts.ErrTransport, kind, note, err)
	}
	d.sounding[note] = down

	d.logger.Debug("Sent "+kind,
		d.logger.Field().Uint8("note", uint8(note)),
		d.logger.Field().String("name", keymap.NoteName(note)),
		d.logger.Field().String("key", keymap.KeyName(key)))
	return nil
}

// AllNotesOff sends Note Off for every sounding note, marks all notes idle
// and closes the dispatcher; later events return contracts.ErrClosed.
// Sends are best effort: failures are logged and combined into the returned
// error. Once ctx is done the remaining notes are reset without sending.
func (d *Dispatcher) AllNotesOff(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true

	var errs error
	for _, note := range d.mapping.Notes() {
		if !d.sounding[note] {
			continue
		}
		d.sounding[note] = false

		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("note off %d skipped: %w", note, err))
			continue
		}
		if err := d.out.Send(noteOff(note, d.velocity)); err != nil {
			d.logger.Warn("Failed to release note",
				d.logger.Field().Uint8("note", uint8(note)),
				d.logger.Field().Error("error", err))
			errs = multierr.Append(errs, fmt.Errorf("%w: note off %d: %v", contracts.ErrTransport, note, err))
			continue
		}
		d.logger.Debug("Released note", d.logger.Field().Uint8("note", uint8(note)))
	}
	return errs
}

// Sounding returns the notes currently on, in ascending order.
func (d *Dispatcher) Sounding() []contracts.Note {
	d.mu.Lock()
	defer d.mu.Unlock()

	var notes []contracts.Note
	for _, note := range d.mapping.Notes() {
		if d.sounding[note] {
			notes = append(notes, note)
		}
	}
	return notes
}

// KeyDownHandler adapts OnKeyDown to a keyboard callback. Transport errors
// are logged and the event is dropped.
func (d *Dispatcher) KeyDownHandler() contracts.KeyHandler {
	return func(key contracts.Key) {
		d.report("key down", key, d.OnKeyDown(key))
	}
}

// KeyUpHandler adapts OnKeyUp to a keyboard callback.
func (d *Dispatcher) KeyUpHandler() contracts.KeyHandler {
	return func(key contracts.Key) {
		d.report("key up", key, d.OnKeyUp(key))
	}
}

func (d *Dispatcher) report(event string, key contracts.Key, err error) {
	if err == nil || errors.Is(err, contracts.ErrClosed) {
		return
	}
	d.logger.Error("Dropping "+event+" event",
		d.logger.Field().String("key", keymap.KeyName(key)),
		d.logger.Field().Error("error", err))
}
