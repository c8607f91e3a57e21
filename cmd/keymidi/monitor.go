package main

import (
	"github.com/leandrodaf/keymidi/internal/selector"
	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// startMonitor opens an input port and logs every message it receives.
// The input is diagnostic only, so every failure here is logged and
// skipped. The returned func stops the capture.
func startMonitor(sel *selector.Selector, flagID int, log contracts.Logger, opts []contracts.Option) func() {
	noop := func() {}

	client, err := newInputClient(opts...)
	if err != nil {
		log.Warn("MIDI input monitor disabled", log.Field().Error("error", err))
		return noop
	}

	ports, err := selector.Enumerate(client)
	if err == nil {
		var id int
		if id, err = choosePort(sel, "input", flagID, ports); err == nil {
			err = client.SelectPort(id)
		}
	}
	if err != nil {
		log.Warn("MIDI input monitor disabled", log.Field().Error("error", err))
		_ = client.Stop()
		return noop
	}

	events := make(chan contracts.MIDI, 100)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var event contracts.MIDI
			select {
			case <-quit:
				return
			case event = <-events:
			}
			log.Info("MIDI input",
				log.Field().Uint64("timestamp", event.Timestamp),
				log.Field().Int("command", int(event.Command)),
				log.Field().Uint8("channel", event.Channel),
				log.Field().Uint8("note", event.Note),
				log.Field().Uint8("velocity", event.Velocity),
			)
		}
	}()
	client.StartCapture(events)

	// events is never closed: a driver thread may still hold it after Stop.
	return func() {
		_ = client.Stop()
		close(quit)
		<-done
	}
}
