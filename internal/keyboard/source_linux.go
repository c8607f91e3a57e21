//go:build linux
// +build linux

package keyboard

import (
	"errors"
	"fmt"
	"os"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// evdev EV_KEY values.
const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// Open starts reading key events from the given /dev/input/event* paths.
// With no paths every readable device that looks like a keyboard is used.
func Open(logger contracts.Logger, paths ...string) (*Source, error) {
	if len(paths) == 0 {
		found, err := discover(logger)
		if err != nil {
			return nil, err
		}
		paths = found
	}

	var devices []*evdev.InputDevice
	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			for _, d := range devices {
				_ = d.Close()
			}
			return nil, fmt.Errorf("%w: open %s: %v", contracts.ErrKeyboardUnavailable, path, err)
		}
		devices = append(devices, dev)
	}

	s := newSource(logger)
	for i, dev := range devices {
		name, _ := dev.Name()
		logger.Info("Listening for keys",
			logger.Field().String("device", paths[i]),
			logger.Field().String("name", name))
		s.start(dev, dev.Close)
	}
	return s, nil
}

// discover lists event devices that report letter keys. Devices we may not
// read are skipped with a hint, since evdev access usually needs the input group.
func discover(logger contracts.Logger) ([]string, error) {
	inputs, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrKeyboardUnavailable, err)
	}

	var paths []string
	denied := 0
	for _, in := range inputs {
		if err := unix.Access(in.Path, unix.R_OK); err != nil {
			denied++
			continue
		}
		if isKeyboard(in.Path) {
			logger.Debug("Found keyboard",
				logger.Field().String("device", in.Path),
				logger.Field().String("name", in.Name))
			paths = append(paths, in.Path)
		}
	}

	if len(paths) == 0 {
		msg := "no keyboard devices found"
		if denied > 0 {
			msg = fmt.Sprintf("%s (%d devices not readable; is the user in the input group?)", msg, denied)
		}
		return nil, fmt.Errorf("%w: %s", contracts.ErrKeyboardUnavailable, msg)
	}
	return paths, nil
}

func isKeyboard(path string) bool {
	dev, err := evdev.Open(path)
	if err != nil {
		return false
	}
	defer dev.Close()

	hasA, hasSpace := false, false
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		switch code {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_SPACE:
			hasSpace = true
		}
	}
	return hasA && hasSpace
}

// decode turns an evdev event into a key transition. Auto-repeat counts as a
// key down; the dispatcher ignores it while the note sounds.
func decode(ev *evdev.InputEvent) (contracts.Key, bool, bool) {
	if ev.Type != evdev.EV_KEY {
		return 0, false, false
	}
	switch ev.Value {
	case keyPress, keyRepeat:
		return contracts.Key(ev.Code), true, true
	case keyRelease:
		return contracts.Key(ev.Code), false, true
	}
	return 0, false, false
}

// reader is the part of *evdev.InputDevice the read loop needs.
type reader interface {
	ReadOne() (*evdev.InputEvent, error)
}

func (s *Source) start(dev reader, closeFn func() error) {
	s.closers = append(s.closers, closeFn)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			ev, err := dev.ReadOne()
			if err != nil {
				if !s.isClosed() && !errors.Is(err, os.ErrClosed) && !errors.Is(err, unix.ENODEV) {
					s.logger.Warn("Keyboard read failed", s.logger.Field().Error("error", err))
				}
				return
			}
			if key, down, ok := decode(ev); ok {
				s.dispatch(key, down)
			}
		}
	}()
}
