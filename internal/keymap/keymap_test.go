package keymap

import (
	"testing"

	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyJ contracts.Key = 36
	keyK contracts.Key = 37
	keyL contracts.Key = 38
)

func TestBuildLookup(t *testing.T) {
	keys := []contracts.Key{keyJ, keyK, keyL}
	m, err := Build(36, keys)
	require.NoError(t, err)

	seen := map[contracts.Note]contracts.Key{}
	for i, k := range keys {
		note, ok := m.Lookup(k)
		require.True(t, ok)
		assert.Equal(t, contracts.Note(36+i), note)

		_, dup := seen[note]
		assert.False(t, dup, "note %d assigned twice", note)
		seen[note] = k

		back, ok := m.Key(note)
		require.True(t, ok)
		assert.Equal(t, k, back)
	}

	_, ok := m.Lookup(99)
	assert.False(t, ok)
	_, ok = m.Key(35)
	assert.False(t, ok)
	_, ok = m.Key(39)
	assert.False(t, ok)

	assert.Equal(t, []contracts.Note{36, 37, 38}, m.Notes())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, contracts.Note(36), m.Start())
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	keys := []contracts.Key{keyJ, keyK}
	m, err := Build(60, keys)
	require.NoError(t, err)

	keys[0] = keyL
	note, ok := m.Lookup(keyJ)
	require.True(t, ok)
	assert.Equal(t, contracts.Note(60), note)
	_, ok = m.Key(60)
	assert.True(t, ok)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		start contracts.Note
		keys  []contracts.Key
	}{
		{"empty", 0, nil},
		{"duplicate", 10, []contracts.Key{keyJ, keyK, keyJ}},
		{"overflow", 126, []contracts.Key{keyJ, keyK, keyL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.start, tt.keys)
			assert.ErrorIs(t, err, contracts.ErrConfig)
		})
	}
}

func TestBuildUpperBoundary(t *testing.T) {
	m, err := Build(125, []contracts.Key{keyJ, keyK, keyL})
	require.NoError(t, err)
	note, _ := m.Lookup(keyL)
	assert.Equal(t, contracts.Note(127), note)
}

func TestParseNote(t *testing.T) {
	good := map[string]contracts.Note{
		"36":  36,
		"0":   0,
		"127": 127,
		"C4":  60,
		"c2":  36,
		"C#3": 49,
		"Bb1": 34,
		"C-1": 0,
		"G9":  127,
	}
	for in, want := range good {
		got, err := ParseNote(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	for _, in := range []string{"", "128", "-1", "H2", "C", "G#9", "Cx"} {
		_, err := ParseNote(in)
		assert.ErrorIs(t, err, contracts.ErrConfig, in)
	}
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "C-1", NoteName(0))
	assert.Equal(t, "A#2", NoteName(46))
}
