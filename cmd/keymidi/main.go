// Command keymidi plays MIDI notes from the computer keyboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/leandrodaf/keymidi/internal/config"
	"github.com/leandrodaf/keymidi/internal/dispatcher"
	"github.com/leandrodaf/keymidi/internal/keyboard"
	"github.com/leandrodaf/keymidi/internal/keymap"
	"github.com/leandrodaf/keymidi/internal/logger"
	"github.com/leandrodaf/keymidi/internal/selector"
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/leandrodaf/keymidi/sdk/midi"
)

// Transport constructors; tests replace them with fakes.
var (
	newOutputClient = midi.NewOutputClient
	newInputClient  = midi.NewMIDIClient
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "keymidi:", err)
		return 2
	}

	log := logger.NewZapLogger()
	defer func() { _ = log.Sync() }()
	log.SetLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		if err := log.SetDestination(contracts.FileLog, cfg.LogFile); err != nil {
			fmt.Fprintln(stderr, "keymidi:", err)
			return 2
		}
	}

	if err := start(cfg, log, stdin, stdout); err != nil {
		log.Error("keymidi stopped", log.Field().Error("error", err))
		fmt.Fprintln(stderr, "keymidi:", err)
		return 1
	}
	return 0
}

func start(cfg config.Config, log *logger.ZapLogger, stdin io.Reader, stdout io.Writer) error {
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(cfg.LogLevel),
		contracts.WithSendTimeout(cfg.SendTimeout),
	}

	if cfg.List {
		return listPorts(selector.New(stdin, stdout, log), opts)
	}

	// Mapping problems abort before any device is touched.
	keys, err := keymap.ParseKeys(cfg.KeyNames)
	if err != nil {
		return err
	}
	mapping, err := keymap.Build(cfg.Start, keys)
	if err != nil {
		return err
	}

	out, err := newOutputClient(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = out.Stop() }()

	sel := selector.New(stdin, stdout, log)
	outPorts, err := selector.Enumerate(out)
	if err != nil {
		return err
	}

	outID, err := choosePort(sel, "output", cfg.OutPort, outPorts)
	if err != nil {
		return err
	}
	if err := out.SelectPort(outID); err != nil {
		return err
	}

	if cfg.Monitor {
		stopMonitor := startMonitor(sel, cfg.InPort, log, opts)
		defer stopMonitor()
	}

	d, err := dispatcher.New(mapping, out,
		dispatcher.WithVelocity(cfg.Velocity),
		dispatcher.WithLogger(log))
	if err != nil {
		return err
	}

	kb, err := keyboard.Open(log, cfg.Devices...)
	if err != nil {
		return err
	}
	defer func() { _ = kb.Close() }()

	log.Info("Ready",
		log.Field().String("first", keymap.NoteName(mapping.Start())),
		log.Field().Int("keys", mapping.Len()),
		log.Field().Uint8("velocity", cfg.Velocity))
	fmt.Fprintln(stdout, "Playing. Press Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, kb, d, cfg, log)
}

func choosePort(sel *selector.Selector, kind string, flagID int, ports []contracts.PortInfo) (int, error) {
	if flagID != config.NoPort {
		return selector.Validate(flagID, ports)
	}
	return sel.Prompt(kind, ports)
}

// listPorts prints the output and input ports. It needs no key layout.
func listPorts(sel *selector.Selector, opts []contracts.Option) error {
	out, err := newOutputClient(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = out.Stop() }()

	ports, err := selector.Enumerate(out)
	if err != nil {
		return err
	}
	sel.Print("output", ports)

	in, err := newInputClient(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = in.Stop() }()

	if ports, err = selector.Enumerate(in); err != nil {
		return err
	}
	sel.Print("input", ports)
	return nil
}
