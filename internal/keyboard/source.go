// Package keyboard delivers global key-down and key-up events from the OS.
package keyboard

import (
	"errors"
	"sync"

	"go.uber.org/multierr"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// Source fans key transitions out to registered handlers. Handlers run on
// the reader goroutine of the device that produced the event.
type Source struct {
	logger contracts.Logger

	mu     sync.RWMutex // held for reading while handlers run
	down   map[uint64]contracts.KeyHandler
	up     map[uint64]contracts.KeyHandler
	nextID uint64
	closed bool

	closers   []func() error
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

var _ contracts.KeyboardSource = (*Source)(nil)

func newSource(logger contracts.Logger) *Source {
	return &Source{
		logger: logger,
		down:   make(map[uint64]contracts.KeyHandler),
		up:     make(map[uint64]contracts.KeyHandler),
	}
}

// RegisterKeyDown adds a handler for key presses (including auto-repeat).
func (s *Source) RegisterKeyDown(handler contracts.KeyHandler) (contracts.Subscription, error) {
	return s.register(s.down, handler)
}

// RegisterKeyUp adds a handler for key releases.
func (s *Source) RegisterKeyUp(handler contracts.KeyHandler) (contracts.Subscription, error) {
	return s.register(s.up, handler)
}

func (s *Source) register(handlers map[uint64]contracts.KeyHandler, handler contracts.KeyHandler) (contracts.Subscription, error) {
	if handler == nil {
		return nil, errors.New("nil key handler")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, contracts.ErrKeyboardUnavailable
	}
	id := s.nextID
	s.nextID++
	handlers[id] = handler
	return &subscription{source: s, handlers: handlers, id: id}, nil
}

func (s *Source) dispatch(key contracts.Key, down bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handlers := s.up
	if down {
		handlers = s.down
	}
	for _, h := range handlers {
		h(key)
	}
}

func (s *Source) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close drops every handler, closes the devices and waits for the readers
// to exit.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.down = map[uint64]contracts.KeyHandler{}
		s.up = map[uint64]contracts.KeyHandler{}
		s.mu.Unlock()

		for _, c := range s.closers {
			s.closeErr = multierr.Append(s.closeErr, c())
		}
		s.wg.Wait()
	})
	return s.closeErr
}

// subscription removes one handler. Removal takes the write lock, so once
// Close returns no dispatch is still running that handler. Calling Close
// from inside the handler itself would deadlock.
type subscription struct {
	source   *Source
	handlers map[uint64]contracts.KeyHandler
	id       uint64
	once     sync.Once
}

func (sub *subscription) Close() error {
	sub.once.Do(func() {
		sub.source.mu.Lock()
		defer sub.source.mu.Unlock()
		delete(sub.handlers, sub.id)
	})
	return nil
}
