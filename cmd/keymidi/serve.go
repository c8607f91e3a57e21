package main

import (
	"context"
	"time"

	"github.com/leandrodaf/keymidi/internal/config"
	"github.com/leandrodaf/keymidi/internal/dispatcher"
	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// serve wires the dispatcher to the keyboard and blocks until ctx is done.
// On the way out it unsubscribes both handlers, then releases every
// sounding note within cfg.Grace, plus one cfg.SendTimeout for a send
// already in flight.
func serve(ctx context.Context, kb contracts.KeyboardSource, d *dispatcher.Dispatcher, cfg config.Config, log contracts.Logger) error {
	downSub, err := kb.RegisterKeyDown(d.KeyDownHandler())
	if err != nil {
		return err
	}
	defer func() { _ = downSub.Close() }()

	upSub, err := kb.RegisterKeyUp(d.KeyUpHandler())
	if err != nil {
		return err
	}
	defer func() { _ = upSub.Close() }()

	<-ctx.Done()
	log.Info("Shutting down")

	_ = downSub.Close()
	_ = upSub.Close()

	graceCtx, cancel := context.WithTimeout(context.Background(), cfg.Grace)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.AllNotesOff(graceCtx) }()

	select {
	case err := <-done:
		if err != nil {
			log.Warn("Some notes could not be released", log.Field().Error("error", err))
		}
	case <-graceCtx.Done():
		log.Warn("Gave up releasing notes", log.Field().Duration("grace", cfg.Grace))
		// A send may still be in flight; the caller stops the output next.
		select {
		case <-done:
		case <-time.After(cfg.SendTimeout):
			log.Warn("Output still busy at shutdown", log.Field().Duration("sendTimeout", cfg.SendTimeout))
		}
	}
	return nil
}
