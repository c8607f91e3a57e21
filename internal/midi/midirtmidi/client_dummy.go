//go:build !linux
// +build !linux

package midirtmidi

import (
	"fmt"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a client whose operations all fail.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &dummyMIDIClient{logger: options.Logger}, nil
}

// NewOutputClient returns a client whose operations all fail.
func NewOutputClient(options *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	return &dummyMIDIClient{logger: options.Logger}, nil
}

func (m *dummyMIDIClient) ListPorts() ([]contracts.PortInfo, error) {
	m.logger.Warn("ListPorts called on dummy RtMidi client")
	return nil, fmt.Errorf("%w: RtMidi backend is only built on linux", contracts.ErrPortEnumeration)
}

func (m *dummyMIDIClient) SelectPort(portID int) error {
	return fmt.Errorf("%w: RtMidi backend is only built on linux", contracts.ErrPortUnavailable)
}

func (m *dummyMIDIClient) Send(msg []byte) error {
	return fmt.Errorf("RtMidi backend is only built on linux")
}

func (m *dummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy RtMidi client")
}

func (m *dummyMIDIClient) Stop() error {
	return nil
}
