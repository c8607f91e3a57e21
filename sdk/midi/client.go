package midi

import (
	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// NewMIDIClient creates a MIDI input client with the specified options.
// It applies default options and initializes the client.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI input client.
//   - error: An error, if any occurred during the creation of the client.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(&options)
}

// NewOutputClient creates a MIDI output client with the specified options.
//
// Returns:
//   - contracts.OutputMIDI: An instance of the MIDI output client.
//   - error: An error, if any occurred during the creation of the client.
func NewOutputClient(opts ...contracts.Option) (contracts.OutputMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return NewOutput(&options)
}
