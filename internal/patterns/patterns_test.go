package patterns

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_TripsAndRefuses(t *testing.T) {
	cb := NewCircuitBreaker("Storefront", "patterns-test", BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  2,
		FailureRatio: 0.5,
	})
	assert.Equal(t, "closed", cb.GetState())

	boom := errors.New("storefront down")
	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, 1, cb.GetStateValue())

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called)

	err = FormatError("Storefront", err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "Storefront")
}

func TestFormatError_PassesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, FormatError("x", boom))
	assert.NoError(t, FormatError("x", nil))
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(1, 20*time.Millisecond, "storefront", "patterns-test")

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	started := make(chan struct{})
	go func() {
		defer wg.Done()
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	assert.Equal(t, 1, b.InUse())

	err := b.Execute(context.Background(), func() error { return nil })
	assert.ErrorContains(t, err, "timeout acquiring resource")

	close(release)
	wg.Wait()

	require.NoError(t, b.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, 0, b.InUse())
}

func TestBulkhead_HonoursContext(t *testing.T) {
	b := NewBulkhead(1, time.Minute, "storefront", "patterns-test")
	hold := make(chan struct{})
	started := make(chan struct{})
	go b.Execute(context.Background(), func() error {
		close(started)
		<-hold
		return nil
	})
	<-started
	defer close(hold)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Execute(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithTimeoutAndSleep(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	_, hasDeadline := func() (time.Time, bool) {
		c, cancel := WithTimeout(context.Background(), 0)
		defer cancel()
		return c.Deadline()
	}()
	assert.True(t, hasDeadline)
}
