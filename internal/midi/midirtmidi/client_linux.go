//go:build linux
// +build linux

package midirtmidi

import (
	"fmt"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// ClientMid listens on one RtMidi input port for diagnostic logging.
type ClientMid struct {
	logger          contracts.Logger
	drv             *rtmididrv.Driver
	midiEventFilter *contracts.MIDIEventFilter

	mu       sync.Mutex
	in       drivers.In
	stopFn   func()
	events   chan contracts.MIDI
	stopOnce sync.Once
}

// NewMIDIClient opens the RtMidi driver for input.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	drv, err := newDriver()
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("MIDI input client created for RtMidi")
	return &ClientMid{
		logger:          options.Logger,
		drv:             drv,
		midiEventFilter: options.MIDIEventFilter,
	}, nil
}

func (m *ClientMid) ins() ([]drivers.In, error) {
	ins, err := withTimeout(listTimeout, ErrListTimeout, m.drv.Ins)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrPortEnumeration, err)
	}
	return ins, nil
}

// ListPorts lists the RtMidi input ports.
func (m *ClientMid) ListPorts() ([]contracts.PortInfo, error) {
	ins, err := m.ins()
	if err != nil {
		return nil, err
	}
	return portInfos(ins), nil
}

// SelectPort remembers the input port to listen on; StartCapture opens it.
func (m *ClientMid) SelectPort(portID int) error {
	ins, err := m.ins()
	if err != nil {
		return err
	}
	if portID < 0 || portID >= len(ins) {
		return fmt.Errorf("%w: no input port %d", contracts.ErrPortUnavailable, portID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.in = ins[portID]
	m.logger.Info("MIDI input selected",
		m.logger.Field().Int("portID", portID),
		m.logger.Field().String("portName", m.in.String()))
	return nil
}

// StartCapture starts forwarding incoming messages to eventChannel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.in == nil {
		m.logger.Error("Cannot start capture: No MIDI input selected")
		return
	}
	if m.stopFn != nil {
		m.logger.Warn("Capture already started")
		return
	}

	m.events = eventChannel
	stop, err := midi.ListenTo(m.in, m.handle, midi.HandleError(func(err error) {
		m.logger.Warn("MIDI input error", m.logger.Field().Error("error", err))
	}))
	if err != nil {
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", err))
		return
	}
	m.stopFn = stop
	m.logger.Debug("MIDI capture started")
}

func (m *ClientMid) handle(msg midi.Message, _ int32) {
	raw := []byte(msg)
	if len(raw) < 3 {
		return
	}
	event := contracts.MIDI{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
		Command:   raw[0] & 0xF0,
		Channel:   raw[0] & 0x0F,
		Note:      raw[1],
		Velocity:  raw[2],
	}
	if !m.midiEventFilter.Allows(event.Command) {
		return
	}
	select {
	case m.events <- event:
	default:
		m.logger.Warn("MIDI event channel is full; event discarded")
	}
}

// Stop ends the capture and closes the driver. Safe to call more than once.
func (m *ClientMid) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.closeLocked()
		m.mu.Unlock()
		err = m.drv.Close()
	})
	return err
}

func (m *ClientMid) closeLocked() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.in != nil {
		_ = m.in.Close()
		m.in = nil
	}
}
