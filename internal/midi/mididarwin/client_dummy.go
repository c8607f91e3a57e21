//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

type DummyMIDIClient struct {
	logger contracts.Logger
}

func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &DummyMIDIClient{logger: options.Logger}, nil
}

func NewOutputClient(options *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	return &DummyMIDIClient{logger: options.Logger}, nil
}

func (m *DummyMIDIClient) ListPorts() ([]contracts.PortInfo, error) {
	m.logger.Warn("ListPorts called on dummy CoreMIDI client")
	return nil, fmt.Errorf("%w: CoreMIDI is not available on this platform", contracts.ErrPortEnumeration)
}

func (m *DummyMIDIClient) SelectPort(portID int) error {
	return fmt.Errorf("%w: CoreMIDI is not available on this platform", contracts.ErrPortUnavailable)
}

func (m *DummyMIDIClient) Send(msg []byte) error {
	return fmt.Errorf("CoreMIDI is not available on this platform")
}

func (m *DummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy CoreMIDI client")
}

func (m *DummyMIDIClient) Stop() error {
	return nil
}
