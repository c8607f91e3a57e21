//go:build linux
// +build linux

package keyboard

import (
	"os"
	"sync"
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/leandrodaf/keymidi/internal/logger"
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of events, then reports the device closed.
type scripted struct {
	events []evdev.InputEvent
}

func (s *scripted) ReadOne() (*evdev.InputEvent, error) {
	if len(s.events) == 0 {
		return nil, os.ErrClosed
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return &ev, nil
}

func keyEvent(code evdev.EvCode, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		ev       evdev.InputEvent
		wantKey  contracts.Key
		wantDown bool
		wantOK   bool
	}{
		{"press", keyEvent(evdev.KEY_J, keyPress), contracts.Key(evdev.KEY_J), true, true},
		{"repeat", keyEvent(evdev.KEY_J, keyRepeat), contracts.Key(evdev.KEY_J), true, true},
		{"release", keyEvent(evdev.KEY_J, keyRelease), contracts.Key(evdev.KEY_J), false, true},
		{"sync", evdev.InputEvent{Type: evdev.EV_SYN}, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.ev
			key, down, ok := decode(&ev)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantDown, down)
			}
		})
	}
}

func TestReaderDeliversInOrder(t *testing.T) {
	s := newSource(logger.NewNopLogger())

	var mu sync.Mutex
	var got []string
	record := func(prefix string) contracts.KeyHandler {
		return func(k contracts.Key) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, prefix+":"+evdev.KEYToString[evdev.EvCode(k)])
		}
	}
	downSub, err := s.RegisterKeyDown(record("down"))
	require.NoError(t, err)
	defer downSub.Close()
	upSub, err := s.RegisterKeyUp(record("up"))
	require.NoError(t, err)
	defer upSub.Close()

	dev := &scripted{events: []evdev.InputEvent{
		keyEvent(evdev.KEY_J, keyPress),
		{Type: evdev.EV_SYN},
		keyEvent(evdev.KEY_J, keyRepeat),
		keyEvent(evdev.KEY_K, keyPress),
		keyEvent(evdev.KEY_J, keyRelease),
	}}
	s.start(dev, func() error { return nil })
	s.wg.Wait()
	require.NoError(t, s.Close())

	assert.Equal(t, []string{"down:KEY_J", "down:KEY_J", "down:KEY_K", "up:KEY_J"}, got)
}
