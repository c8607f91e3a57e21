package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leandrodaf/keymidi/internal/config"
	"github.com/leandrodaf/keymidi/internal/dispatcher"
	"github.com/leandrodaf/keymidi/internal/keymap"
	"github.com/leandrodaf/keymidi/internal/logger"
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKeyboard is a KeyboardSource driven by the test.
type fakeKeyboard struct {
	mu   sync.Mutex
	down map[int]contracts.KeyHandler
	up   map[int]contracts.KeyHandler
	next int

	registered chan struct{}
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{
		down:       map[int]contracts.KeyHandler{},
		up:         map[int]contracts.KeyHandler{},
		registered: make(chan struct{}, 2),
	}
}

type fakeSub struct {
	kb   *fakeKeyboard
	set  map[int]contracts.KeyHandler
	id   int
	once sync.Once
}

func (s *fakeSub) Close() error {
	s.once.Do(func() {
		s.kb.mu.Lock()
		defer s.kb.mu.Unlock()
		delete(s.set, s.id)
	})
	return nil
}

func (k *fakeKeyboard) register(set map[int]contracts.KeyHandler, h contracts.KeyHandler) (contracts.Subscription, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	id := k.next
	k.next++
	set[id] = h
	k.registered <- struct{}{}
	return &fakeSub{kb: k, set: set, id: id}, nil
}

func (k *fakeKeyboard) RegisterKeyDown(h contracts.KeyHandler) (contracts.Subscription, error) {
	return k.register(k.down, h)
}

func (k *fakeKeyboard) RegisterKeyUp(h contracts.KeyHandler) (contracts.Subscription, error) {
	return k.register(k.up, h)
}

func (k *fakeKeyboard) Close() error { return nil }

func (k *fakeKeyboard) press(key contracts.Key, down bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	set := k.up
	if down {
		set = k.down
	}
	for _, h := range set {
		h(key)
	}
}

func (k *fakeKeyboard) handlers() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.down) + len(k.up)
}

type sink struct {
	mu   sync.Mutex
	sent [][]byte
}

func (s *sink) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, append([]byte(nil), msg...))
	return nil
}

func (s *sink) messages() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.sent...)
}

func TestServeReleasesSoundingNotesOnShutdown(t *testing.T) {
	mapping, err := keymap.Build(36, []contracts.Key{1, 2, 3})
	require.NoError(t, err)
	out := &sink{}
	d, err := dispatcher.New(mapping, out)
	require.NoError(t, err)

	kb := newFakeKeyboard()
	cfg := config.Default()
	cfg.Grace = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- serve(ctx, kb, d, cfg, logger.NewNopLogger()) }()

	<-kb.registered
	<-kb.registered

	kb.press(1, true)
	kb.press(3, true)
	kb.press(3, true) // auto-repeat
	cancel()
	require.NoError(t, <-errc)

	msgs := out.messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, [][]byte{{0x90, 36, 100}, {0x90, 38, 100}}, msgs[:2])
	assert.ElementsMatch(t, [][]byte{{0x80, 36, 100}, {0x80, 38, 100}}, msgs[2:])

	assert.Zero(t, kb.handlers())
	assert.Empty(t, d.Sounding())
}

func TestRunExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"-h"}, strings.NewReader(""), &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"-velocity", "0"}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid configuration")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-keys", "J,J", "-log-file", t.TempDir() + "/keymidi.log"},
		strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid configuration")
}

// stallingSink blocks every Note Off until release is closed.
type stallingSink struct {
	release  chan struct{}
	finished atomic.Bool
}

func (s *stallingSink) Send(msg []byte) error {
	if msg[0]&0xF0 == 0x80 {
		<-s.release
		s.finished.Store(true)
	}
	return nil
}

func startStalled(t *testing.T, cfg config.Config) (*stallingSink, *fakeKeyboard, context.CancelFunc, chan error) {
	t.Helper()
	mapping, err := keymap.Build(36, []contracts.Key{1})
	require.NoError(t, err)
	out := &stallingSink{release: make(chan struct{})}
	d, err := dispatcher.New(mapping, out)
	require.NoError(t, err)

	kb := newFakeKeyboard()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- serve(ctx, kb, d, cfg, logger.NewNopLogger()) }()
	<-kb.registered
	<-kb.registered
	kb.press(1, true)
	return out, kb, cancel, errc
}

func TestServeWaitsForSendInFlightAfterGrace(t *testing.T) {
	cfg := config.Default()
	cfg.Grace = 20 * time.Millisecond
	cfg.SendTimeout = 5 * time.Second

	out, _, cancel, errc := startStalled(t, cfg)
	cancel()
	time.AfterFunc(100*time.Millisecond, func() { close(out.release) })

	require.NoError(t, <-errc)
	assert.True(t, out.finished.Load(), "serve returned while Note Off was still being sent")
}

func TestServeGivesUpOnWedgedOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Grace = 20 * time.Millisecond
	cfg.SendTimeout = 50 * time.Millisecond

	out, _, cancel, errc := startStalled(t, cfg)
	t.Cleanup(func() { close(out.release) })
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return")
	}
	assert.False(t, out.finished.Load())
}
