//go:build darwin
// +build darwin

package mididarwin

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// OutputClient sends MIDI messages to a CoreMIDI destination.
type OutputClient struct {
	logger contracts.Logger
	client coremidi.Client
	port   coremidi.OutputPort

	mu      sync.Mutex
	dest    *coremidi.Destination
	stopped bool
}

// NewOutputClient creates the CoreMIDI client and its output port.
func NewOutputClient(options *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrPortEnumeration, err)
	}
	port, err := coremidi.NewOutputPort(client, "keymidi output")
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", contracts.ErrPortUnavailable, ErrCreateOutputPort, err)
	}
	options.Logger.Debug("MIDI output client successfully created")

	return &OutputClient{
		logger: options.Logger,
		client: client,
		port:   port,
	}, nil
}

// ListPorts retrieves the available MIDI destinations.
func (o *OutputClient) ListPorts() ([]contracts.PortInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrPortEnumeration, err)
	}

	ports := make([]contracts.PortInfo, len(destinations))
	for i, dest := range destinations {
		entity := dest.Entity()
		ports[i] = contracts.PortInfo{
			ID:           i,
			Name:         dest.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return ports, nil
}

// SelectPort makes the destination with the given index the send target.
func (o *OutputClient) SelectPort(portID int) error {
	o.mu.Lock()
	stopped := o.stopped
	o.mu.Unlock()
	if stopped {
		return fmt.Errorf("%w: output client stopped", contracts.ErrPortUnavailable)
	}

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrPortEnumeration, err)
	}
	if portID < 0 || portID >= len(destinations) {
		return fmt.Errorf("%w: %w: output %d", contracts.ErrPortUnavailable, ErrInvalidMIDIDevice, portID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	dest := destinations[portID]
	o.dest = &dest
	o.logger.Info("MIDI output selected",
		o.logger.Field().Int("portID", portID),
		o.logger.Field().String("portName", dest.Name()))
	return nil
}

// Send delivers one message as a single CoreMIDI packet.
func (o *OutputClient) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.dest == nil {
		return ErrNoPortSelected
	}
	packet := coremidi.NewPacket(msg, 0)
	return packet.Send(&o.port, o.dest)
}

// Stop detaches from the destination for good; later sends fail with
// ErrNoPortSelected. go-coremidi has no call to dispose of a client or its
// ports, so both stay registered with CoreMIDI until the process exits.
func (o *OutputClient) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return nil
	}
	o.stopped = true
	o.dest = nil
	o.logger.Debug("MIDI output client stopped")
	return nil
}
