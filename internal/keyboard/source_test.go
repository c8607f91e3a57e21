package keyboard

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/leandrodaf/keymidi/internal/logger"
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRoutesByDirection(t *testing.T) {
	s := newSource(logger.NewNopLogger())

	var downs, ups []contracts.Key
	downSub, err := s.RegisterKeyDown(func(k contracts.Key) { downs = append(downs, k) })
	require.NoError(t, err)
	defer downSub.Close()
	upSub, err := s.RegisterKeyUp(func(k contracts.Key) { ups = append(ups, k) })
	require.NoError(t, err)
	defer upSub.Close()

	s.dispatch(36, true)
	s.dispatch(37, true)
	s.dispatch(36, false)

	assert.Equal(t, []contracts.Key{36, 37}, downs)
	assert.Equal(t, []contracts.Key{36}, ups)
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	s := newSource(logger.NewNopLogger())

	var calls int32
	sub, err := s.RegisterKeyDown(func(contracts.Key) { atomic.AddInt32(&calls, 1) })
	require.NoError(t, err)

	s.dispatch(1, true)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	s.dispatch(1, true)

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSubscriptionCloseWaitsForRunningHandler(t *testing.T) {
	s := newSource(logger.NewNopLogger())

	entered := make(chan struct{})
	release := make(chan struct{})
	var finished int32
	sub, err := s.RegisterKeyDown(func(contracts.Key) {
		close(entered)
		<-release
		atomic.StoreInt32(&finished, 1)
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.dispatch(5, true)
	}()
	<-entered

	closed := make(chan struct{})
	go func() {
		_ = sub.Close()
		close(closed)
	}()
	close(release)
	<-closed

	assert.EqualValues(t, 1, atomic.LoadInt32(&finished))
	wg.Wait()
}

func TestCloseSource(t *testing.T) {
	s := newSource(logger.NewNopLogger())

	var closedDevices int32
	s.closers = append(s.closers, func() error {
		atomic.AddInt32(&closedDevices, 1)
		return nil
	})

	var calls int32
	_, err := s.RegisterKeyUp(func(contracts.Key) { atomic.AddInt32(&calls, 1) })
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	s.dispatch(1, false)

	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&closedDevices))

	_, err = s.RegisterKeyDown(func(contracts.Key) {})
	assert.ErrorIs(t, err, contracts.ErrKeyboardUnavailable)
}

func TestRegisterNilHandler(t *testing.T) {
	s := newSource(logger.NewNopLogger())
	_, err := s.RegisterKeyDown(nil)
	assert.Error(t, err)
}
