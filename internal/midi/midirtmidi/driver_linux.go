//go:build linux
// +build linux

// Package midirtmidi talks to ALSA through RtMidi using gomidi's rtmididrv.
package midirtmidi

import (
	"errors"
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

var (
	ErrNoPortSelected = errors.New("no MIDI port selected")
	ErrSendTimeout    = errors.New("MIDI send timed out")
	ErrListTimeout    = errors.New("MIDI port listing timed out")
)

// listTimeout bounds port enumeration; a wedged sound server can hang it.
const listTimeout = 3 * time.Second

func newDriver() (*rtmididrv.Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("%w: rtmididrv: %v", contracts.ErrPortEnumeration, err)
	}
	return drv, nil
}

// withTimeout runs fn on its own goroutine and gives up after d. fn keeps
// running in the background when it overruns.
func withTimeout[T any](d time.Duration, timeoutErr error, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-time.After(d):
		var zero T
		return zero, fmt.Errorf("%w after %s", timeoutErr, d)
	}
}

func portInfos[P drivers.Port](ports []P) []contracts.PortInfo {
	infos := make([]contracts.PortInfo, len(ports))
	for i, p := range ports {
		infos[i] = contracts.PortInfo{
			ID:         i,
			Name:       p.String(),
			EntityName: p.String(),
		}
	}
	return infos
}
