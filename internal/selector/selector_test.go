package selector

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/leandrodaf/keymidi/internal/logger"
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ports = []contracts.PortInfo{
	{ID: 0, Name: "Midi Through Port-0"},
	{ID: 1, Name: "IAC Driver Bus 1", Manufacturer: "Apple Inc."},
	{ID: 2, Name: "FluidSynth"},
}

type lister struct {
	ports []contracts.PortInfo
	err   error
}

func (l lister) ListPorts() ([]contracts.PortInfo, error) { return l.ports, l.err }

func newSelector(input string) (*Selector, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out, logger.NewNopLogger()), &out
}

func TestPromptValid(t *testing.T) {
	s, out := newSelector("1\n")
	id, err := s.Prompt("output", ports)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	text := out.String()
	assert.Contains(t, text, "Available MIDI output ports:")
	assert.Contains(t, text, "IAC Driver Bus 1")
	assert.Contains(t, text, "(Apple Inc.)")
	assert.Contains(t, text, "Select output port (0-2): ")
}

func TestPromptRepromptsAfterInvalidAnswer(t *testing.T) {
	s, out := newSelector("abc\n7\n 2 \n")
	id, err := s.Prompt("output", ports)
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.Equal(t, 3, strings.Count(out.String(), "Select output port"))
}

func TestPromptGivesUp(t *testing.T) {
	s, _ := newSelector("x\n-1\n3\n0\n")
	_, err := s.Prompt("input", ports)
	assert.ErrorIs(t, err, contracts.ErrInvalidSelection)
}

func TestPromptEOF(t *testing.T) {
	s, _ := newSelector("")
	_, err := s.Prompt("output", ports)
	assert.ErrorIs(t, err, contracts.ErrInvalidSelection)

	// An answer without a trailing newline still counts.
	s, _ = newSelector("0")
	id, err := s.Prompt("output", ports)
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestPromptNoPorts(t *testing.T) {
	s, _ := newSelector("0\n")
	_, err := s.Prompt("output", nil)
	assert.ErrorIs(t, err, contracts.ErrPortUnavailable)
}

func TestParse(t *testing.T) {
	id, err := Parse(" 2\r\n", ports)
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	for _, answer := range []string{"", "one", "3", "-1", "1.5"} {
		_, err := Parse(answer, ports)
		assert.ErrorIs(t, err, contracts.ErrInvalidSelection, answer)
	}
}

func TestEnumerate(t *testing.T) {
	got, err := Enumerate(lister{ports: ports})
	require.NoError(t, err)
	assert.Equal(t, ports, got)

	_, err = Enumerate(lister{err: errors.New("driver gone")})
	assert.ErrorIs(t, err, contracts.ErrPortEnumeration)
}
