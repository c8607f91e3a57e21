//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy input client for non-Windows systems.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &dummyMIDIClient{logger: options.Logger}, nil
}

// NewOutputClient initializes a dummy output client for non-Windows systems.
func NewOutputClient(options *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	return &dummyMIDIClient{logger: options.Logger}, nil
}

// ListPorts reports that winmm is unavailable.
func (m *dummyMIDIClient) ListPorts() ([]contracts.PortInfo, error) {
	m.logger.Warn("ListPorts called on dummy winmm client")
	return nil, fmt.Errorf("%w: winmm is not available on this platform", contracts.ErrPortEnumeration)
}

func (m *dummyMIDIClient) SelectPort(portID int) error {
	return fmt.Errorf("%w: winmm is not available on this platform", contracts.ErrPortUnavailable)
}

func (m *dummyMIDIClient) Send(msg []byte) error {
	return fmt.Errorf("winmm is not available on this platform")
}

func (m *dummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy winmm client")
}

func (m *dummyMIDIClient) Stop() error {
	return nil
}
