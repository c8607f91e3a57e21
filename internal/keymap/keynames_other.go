//go:build !linux
// +build !linux

package keymap

import (
	"fmt"
	"strings"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// keyCodes holds the Linux input codes of the main typing block, so a key
// layout parses the same way everywhere even where it cannot be captured.
var keyCodes = map[string]contracts.Key{
	"1": 2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9, "9": 10, "0": 11,
	"MINUS": 12, "EQUAL": 13,
	"Q": 16, "W": 17, "E": 18, "R": 19, "T": 20, "Y": 21, "U": 22, "I": 23, "O": 24, "P": 25,
	"LEFTBRACE": 26, "RIGHTBRACE": 27,
	"A": 30, "S": 31, "D": 32, "F": 33, "G": 34, "H": 35, "J": 36, "K": 37, "L": 38,
	"SEMICOLON": 39, "APOSTROPHE": 40, "GRAVE": 41, "BACKSLASH": 43,
	"Z": 44, "X": 45, "C": 46, "V": 47, "B": 48, "N": 49, "M": 50,
	"COMMA": 51, "DOT": 52, "SLASH": 53, "SPACE": 57,
}

var keyNames = func() map[contracts.Key]string {
	names := make(map[contracts.Key]string, len(keyCodes))
	for name, code := range keyCodes {
		names[code] = name
	}
	return names
}()

// ParseKeys resolves key names such as "J", "KEY_J" or "semicolon", keeping
// their order. Raw codes like "0x24" are taken as is.
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
		code, ok := keyCodes[strings.TrimPrefix(canonical, "KEY_")]
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", contracts.ErrConfig, name)
		}
		keys = append(keys, code)
	}
	return keys, nil
}

// KeyName returns the name of key, or its raw code.
func KeyName(key contracts.Key) string {
	if name, ok := keyNames[key]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", uint16(key))
}
