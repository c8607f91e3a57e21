package keymap

import (
	"strconv"
	"strings"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// parseKeyCode accepts a raw key code written in hex, such as "0x24", the
// form KeyName prints for keys it has no name for.
func parseKeyCode(name string) (contracts.Key, bool) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "0x") {
		return 0, false
	}
	code, err := strconv.ParseUint(lower[2:], 16, 16)
	if err != nil {
		return 0, false
	}
	return contracts.Key(code), true
}
