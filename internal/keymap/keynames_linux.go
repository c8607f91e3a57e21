//go:build linux
// +build linux

package keymap

import (
	"fmt"
	"strings"

	"github.com/holoplot/go-evdev"
	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// ParseKeys resolves key names such as "J", "KEY_J" or "semicolon" to evdev
// key codes, keeping their order. Raw codes like "0x24" are taken as is.
func ParseKeys(names []string) ([]contracts.Key, error) {
	keys := make([]contracts.Key, 0, len(names))
	for _, name := range names {
		canonical := strings.ToUpper(strings.TrimSpace(name))
		if canonical == "" {
			continue
		}
		if key, ok := parseKeyCode(canonical); ok {
			keys = append(keys, key)
			continue
		}
		if !strings.HasPrefix(canonical, "KEY_") {
			canonical = "KEY_" + canonical
		}
		code, ok := evdev.KEYFromString[canonical]
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", contracts.ErrConfig, name)
		}
		keys = append(keys, contracts.Key(code))
	}
	return keys, nil
}

// KeyName returns the evdev name of key without the KEY_ prefix.
func KeyName(key contracts.Key) string {
	if name, ok := evdev.KEYToString[evdev.EvCode(key)]; ok {
		return strings.TrimPrefix(name, "KEY_")
	}
	return fmt.Sprintf("0x%x", uint16(key))
}
