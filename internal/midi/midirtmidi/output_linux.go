//go:build linux
// +build linux

package midirtmidi

import (
	"fmt"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// OutputClient sends to one RtMidi output port.
type OutputClient struct {
	logger      contracts.Logger
	drv         *rtmididrv.Driver
	sendTimeout time.Duration

	mu  sync.Mutex
	out drivers.Out

	// wire is held for the whole driver write; a send that outlives its
	// timeout keeps it until the driver returns.
	wire sync.Mutex
}

// NewOutputClient opens the RtMidi driver.
func NewOutputClient(options *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	drv, err := newDriver()
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("MIDI output client created for RtMidi")
	return &OutputClient{
		logger:      options.Logger,
		drv:         drv,
		sendTimeout: options.SendTimeout,
	}, nil
}

func (o *OutputClient) outs() ([]drivers.Out, error) {
	outs, err := withTimeout(listTimeout, ErrListTimeout, o.drv.Outs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrPortEnumeration, err)
	}
	return outs, nil
}

// ListPorts lists the RtMidi output ports.
func (o *OutputClient) ListPorts() ([]contracts.PortInfo, error) {
	outs, err := o.outs()
	if err != nil {
		return nil, err
	}
	return portInfos(outs), nil
}

// SelectPort opens the output port with the given index, closing any previous one.
func (o *OutputClient) SelectPort(portID int) error {
	outs, err := o.outs()
	if err != nil {
		return err
	}
	if portID < 0 || portID >= len(outs) {
		return fmt.Errorf("%w: no output port %d", contracts.ErrPortUnavailable, portID)
	}

	out := outs[portID]
	if err := out.Open(); err != nil {
		return fmt.Errorf("%w: open %q: %v", contracts.ErrPortUnavailable, out.String(), err)
	}

	o.mu.Lock()
	prev := o.out
	o.out = out
	o.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	o.logger.Info("MIDI output selected",
		o.logger.Field().Int("portID", portID),
		o.logger.Field().String("portName", out.String()))
	return nil
}

// Send writes msg, giving up after the configured send timeout. While an
// earlier send is still stuck in the driver, Send fails at once.
func (o *OutputClient) Send(msg []byte) error {
	o.mu.Lock()
	out := o.out
	o.mu.Unlock()
	if out == nil {
		return ErrNoPortSelected
	}

	if o.sendTimeout <= 0 {
		o.wire.Lock()
		defer o.wire.Unlock()
		return out.Send(msg)
	}

	if !o.wire.TryLock() {
		return fmt.Errorf("%w: previous send still blocked", ErrSendTimeout)
	}
	send := func() (struct{}, error) {
		defer o.wire.Unlock()
		return struct{}{}, out.Send(msg)
	}
	_, err := withTimeout(o.sendTimeout, ErrSendTimeout, send)
	return err
}

// Stop closes the port and the driver.
func (o *OutputClient) Stop() error {
	o.mu.Lock()
	out := o.out
	o.out = nil
	o.mu.Unlock()

	if out != nil {
		_ = out.Close()
	}
	return o.drv.Close()
}
