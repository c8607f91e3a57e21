//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/keymidi/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Struct representing MIDI output device capabilities (MIDIOUTCAPSW)
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// OutputClient sends short MIDI messages through winmm.
type OutputClient struct {
	logger contracts.Logger

	mu     sync.Mutex
	handle HMIDIOUT
}

// NewOutputClient creates a MIDI output client for Windows
func NewOutputClient(options *contracts.ClientOptions) (contracts.OutputMIDI, error) {
	options.Logger.Debug("MIDI output client created for Windows")
	return &OutputClient{logger: options.Logger}, nil
}

// ListPorts lists the available MIDI output devices
func (o *OutputClient) ListPorts() ([]contracts.PortInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)

	ports := make([]contracts.PortInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			o.logger.Warn("Failed to get MIDI output capabilities", o.logger.Field().Int("portID", int(i)))
			continue
		}
		name := windows.UTF16ToString(caps.szPname[:])
		ports = append(ports, contracts.PortInfo{
			ID:           int(i),
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return ports, nil
}

// SelectPort opens the output device with the given ID, closing any previous one
func (o *OutputClient) SelectPort(portID int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle != 0 {
		if err := o.closeLocked(); err != nil {
			return err
		}
	}

	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&o.handle)),
		uintptr(portID),
		0,
		0,
		uintptr(CALLBACK_NULL),
	)
	if r1 != 0 {
		o.handle = 0
		return fmt.Errorf("%w: midiOutOpen %d returned %d: %v", contracts.ErrPortUnavailable, portID, r1, err)
	}
	o.logger.Info("MIDI output selected", o.logger.Field().Int("portID", portID))
	return nil
}

// Send packs a channel message into the DWORD midiOutShortMsg expects:
// status in the low byte, then data1, then data2.
func (o *OutputClient) Send(msg []byte) error {
	if len(msg) == 0 || len(msg) > 3 {
		return fmt.Errorf("short message must be 1 to 3 bytes, got %d", len(msg))
	}

	var packed uint32
	for i, b := range msg {
		packed |= uint32(b) << (8 * i)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle == 0 {
		return ErrNoPortSelected
	}
	if r1, _, err := procMidiOutShortMsg.Call(uintptr(o.handle), uintptr(packed)); r1 != 0 {
		return fmt.Errorf("midiOutShortMsg returned %d: %v", r1, err)
	}
	return nil
}

// Stop closes the output device
func (o *OutputClient) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle == 0 {
		return nil
	}
	return o.closeLocked()
}

func (o *OutputClient) closeLocked() error {
	_, _, _ = procMidiOutReset.Call(uintptr(o.handle))
	if r1, _, err := procMidiOutClose.Call(uintptr(o.handle)); r1 != 0 {
		return fmt.Errorf("midiOutClose returned %d: %v", r1, err)
	}
	o.handle = 0
	return nil
}
