package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, contracts.Note(48), cfg.Start)
	assert.Equal(t, DefaultKeys, cfg.KeyNames)
	assert.Equal(t, uint8(100), cfg.Velocity)
	assert.Equal(t, NoPort, cfg.OutPort)
	assert.Equal(t, NoPort, cfg.InPort)
	assert.True(t, cfg.Monitor)
	assert.Empty(t, cfg.Devices)
	assert.Equal(t, 2*time.Second, cfg.Grace)
	assert.Equal(t, contracts.InfoLevel, cfg.LogLevel)
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"-start", "36",
		"-keys", "J, K ,L",
		"-velocity", "90",
		"-out", "2",
		"-monitor",
		"-in", "0",
		"-device", "/dev/input/event3,/dev/input/event7",
		"-grace", "500ms",
		"-log-level", "debug",
		"-log-file", "/tmp/keymidi.log",
		"-list",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, contracts.Note(36), cfg.Start)
	assert.Equal(t, []string{"J", "K", "L"}, cfg.KeyNames)
	assert.Equal(t, uint8(90), cfg.Velocity)
	assert.Equal(t, 2, cfg.OutPort)
	assert.Equal(t, 0, cfg.InPort)
	assert.True(t, cfg.Monitor)
	assert.Equal(t, []string{"/dev/input/event3", "/dev/input/event7"}, cfg.Devices)
	assert.Equal(t, 500*time.Millisecond, cfg.Grace)
	assert.Equal(t, contracts.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "/tmp/keymidi.log", cfg.LogFile)
	assert.True(t, cfg.List)
}

func TestParseErrors(t *testing.T) {
	tests := map[string][]string{
		"bad note":       {"-start", "Z9"},
		"velocity zero":  {"-velocity", "0"},
		"velocity high":  {"-velocity", "200"},
		"no keys":        {"-keys", " , "},
		"bad level":      {"-log-level", "loud"},
		"zero grace":     {"-grace", "0s"},
		"unknown flag":   {"-nope"},
		"extra argument": {"extra"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(args, io.Discard)
			assert.ErrorIs(t, err, contracts.ErrConfig)
		})
	}

	_, err := Parse([]string{"-out", "-3"}, io.Discard)
	assert.ErrorIs(t, err, contracts.ErrInvalidSelection)
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}
