// Package config parses keymidi's command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/leandrodaf/keymidi/internal/keymap"
	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// DefaultKeys lays out two octaves of a piano on the home and top letter
// rows: the home row plays the white keys, the row above the black keys.
var DefaultKeys = []string{
	"A", "W", "S", "E", "D", "F", "T", "G", "Y", "H", "U", "J",
	"K", "O", "L", "P", "SEMICOLON", "APOSTROPHE",
}

// NoPort means the port was not given on the command line.
const NoPort = -1

// Config is everything the CLI needs to start.
type Config struct {
	Start       contracts.Note
	KeyNames    []string
	Velocity    uint8
	OutPort     int // NoPort prompts
	InPort      int // NoPort prompts when Monitor is set
	Monitor     bool
	Devices     []string // evdev paths; empty means discover
	Grace       time.Duration
	SendTimeout time.Duration
	LogLevel    contracts.LogLevel
	LogFile     string
	List        bool
}

// Default returns the settings used when no flags are given.
func Default() Config {
	return Config{
		Start:       48, // C3
		KeyNames:    append([]string(nil), DefaultKeys...),
		Velocity:    100,
		OutPort:     NoPort,
		InPort:      NoPort,
		Monitor:     true,
		Grace:       2 * time.Second,
		SendTimeout: 250 * time.Millisecond,
		LogLevel:    contracts.InfoLevel,
	}
}

// Parse reads flags from args. Usage and flag errors go to stderr. Invalid
// values are reported as contracts.ErrConfig; -h returns flag.ErrHelp.
func Parse(args []string, stderr io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("keymidi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	start := fs.String("start", "C3", "note for the first key: a number 0-127 or a name like C3, F#2")
	keys := fs.String("keys", strings.Join(cfg.KeyNames, ","), "comma separated keys, in note order")
	velocity := fs.Uint("velocity", uint(cfg.Velocity), "velocity for Note On and Note Off (1-127)")
	devices := fs.String("device", "", "comma separated /dev/input/event* paths (default: every keyboard)")
	logLevel := fs.String("log-level", "info", "debug, info, warn or error")
	fs.IntVar(&cfg.OutPort, "out", cfg.OutPort, "output port index (default: ask)")
	fs.IntVar(&cfg.InPort, "in", cfg.InPort, "input port index for -monitor (default: ask)")
	fs.BoolVar(&cfg.Monitor, "monitor", cfg.Monitor, "open an input port and log what it receives (diagnostic only)")
	fs.DurationVar(&cfg.Grace, "grace", cfg.Grace, "time allowed for releasing notes on exit")
	fs.DurationVar(&cfg.SendTimeout, "send-timeout", cfg.SendTimeout, "upper bound for one MIDI send")
	fs.StringVar(&cfg.LogFile, "log-file", "", "write logs to this file instead of stderr")
	fs.BoolVar(&cfg.List, "list", false, "list MIDI ports and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", contracts.ErrConfig, err)
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("%w: unexpected arguments %q", contracts.ErrConfig, fs.Args())
	}

	var err error
	if cfg.Start, err = keymap.ParseNote(*start); err != nil {
		return cfg, err
	}
	if *velocity < 1 || *velocity > 127 {
		return cfg, fmt.Errorf("%w: velocity %d outside 1..127", contracts.ErrConfig, *velocity)
	}
	cfg.Velocity = uint8(*velocity)
	if cfg.LogLevel, err = contracts.ParseLogLevel(*logLevel); err != nil {
		return cfg, err
	}
	cfg.KeyNames = splitList(*keys)
	if len(cfg.KeyNames) == 0 {
		return cfg, fmt.Errorf("%w: -keys is empty", contracts.ErrConfig)
	}
	cfg.Devices = splitList(*devices)
	if cfg.Grace <= 0 {
		return cfg, fmt.Errorf("%w: -grace must be positive", contracts.ErrConfig)
	}
	if cfg.SendTimeout <= 0 {
		return cfg, fmt.Errorf("%w: -send-timeout must be positive", contracts.ErrConfig)
	}
	if cfg.OutPort < NoPort || cfg.InPort < NoPort {
		return cfg, fmt.Errorf("%w: port indexes start at 0", contracts.ErrInvalidSelection)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
