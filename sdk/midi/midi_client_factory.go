package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/keymidi/internal/midi/mididarwin"
	"github.com/leandrodaf/keymidi/internal/midi/midirtmidi"
	"github.com/leandrodaf/keymidi/internal/midi/midiwindows"
	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system has no MIDI backend.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// clientInitializers maps OS names to MIDI input client initializers.
var clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,  // macOS (CoreMIDI).
	"windows": midiwindows.NewMIDIClient, // Windows (winmm).
	"linux":   midirtmidi.NewMIDIClient,  // Linux (ALSA through RtMidi).
}

// outputInitializers maps OS names to MIDI output client initializers.
var outputInitializers = map[string]func(*contracts.ClientOptions) (contracts.OutputMIDI, error){
	"darwin":  mididarwin.NewOutputClient,
	"windows": midiwindows.NewOutputClient,
	"linux":   midirtmidi.NewOutputClient,
}

// NewClient initializes a MIDI input client for the current operating system.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %w: %s", contracts.ErrPortEnumeration, ErrUnsupportedOS, runtime.GOOS)
}

// NewOutput initializes a MIDI output client for the current operating system.
func NewOutput(opts *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	if initializer, exists := outputInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %w: %s", contracts.ErrPortEnumeration, ErrUnsupportedOS, runtime.GOOS)
}
