//go:build !linux
// +build !linux

package keyboard

import (
	"fmt"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// Open is only implemented on Linux, where global key events come from evdev.
func Open(logger contracts.Logger, paths ...string) (*Source, error) {
	return nil, fmt.Errorf("%w: global key capture is only supported on linux", contracts.ErrKeyboardUnavailable)
}
