package keymap

import (
	"testing"

	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeysRawCodes(t *testing.T) {
	keys, err := ParseKeys([]string{"0x24", "0X25", "0x26"})
	require.NoError(t, err)
	assert.Equal(t, []contracts.Key{keyJ, keyK, keyL}, keys)
}

func TestKeyNameRoundTrip(t *testing.T) {
	for _, name := range []string{"J", "SEMICOLON", "0x2f0"} {
		keys, err := ParseKeys([]string{name})
		require.NoError(t, err, name)
		require.Len(t, keys, 1)
		assert.Equal(t, name, KeyName(keys[0]))
	}
}

func TestParseKeysDefaultLayout(t *testing.T) {
	names := []string{
		"A", "W", "S", "E", "D", "F", "T", "G", "Y", "H", "U", "J",
		"K", "O", "L", "P", "SEMICOLON", "APOSTROPHE",
	}
	keys, err := ParseKeys(names)
	require.NoError(t, err)

	m, err := Build(48, keys)
	require.NoError(t, err)
	assert.Equal(t, len(names), m.Len())
}

func TestParseKeysRejectsBadCode(t *testing.T) {
	_, err := ParseKeys([]string{"0xZZ"})
	assert.ErrorIs(t, err, contracts.ErrConfig)
}
