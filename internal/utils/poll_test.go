package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPoller_DoneOnFirstTick(t *testing.T) {
	calls := 0
	p := Poller{Clock: NewManualClock(epoch), Interval: time.Second, Timeout: 10 * time.Second}

	err := p.Run(context.Background(), nil, func(context.Context, time.Duration) (bool, error) {
		calls++
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPoller_TimesOut(t *testing.T) {
	clock := NewManualClock(epoch)
	calls := 0
	p := Poller{Clock: clock, Interval: time.Second, Timeout: 5 * time.Second}

	err := p.Run(context.Background(), nil, func(context.Context, time.Duration) (bool, error) {
		calls++
		return false, nil
	})

	require.ErrorIs(t, err, ErrPollTimeout)
	// t=0,1,2,3,4,5
	assert.Equal(t, 6, calls)
	assert.Equal(t, epoch.Add(5*time.Second), clock.Now())
}

func TestPoller_DelayFirst(t *testing.T) {
	clock := NewManualClock(epoch)
	var firstElapsed time.Duration
	p := Poller{Clock: clock, Interval: 1500 * time.Millisecond, Timeout: 10 * time.Second, DelayFirst: true}

	err := p.Run(context.Background(), nil, func(_ context.Context, elapsed time.Duration) (bool, error) {
		firstElapsed = elapsed
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, firstElapsed)
}

func TestPoller_FnErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	p := Poller{Clock: NewManualClock(epoch), Interval: time.Second, Timeout: 10 * time.Second}

	err := p.Run(context.Background(), nil, func(context.Context, time.Duration) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestPoller_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Poller{Interval: time.Hour, Timeout: time.Hour}

	err := p.Run(ctx, nil, func(context.Context, time.Duration) (bool, error) {
		t.Fatal("fn must not run on a cancelled context")
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoller_WakeTriggersEvaluation(t *testing.T) {
	wake := make(chan struct{}, 1)
	calls := 0
	p := Poller{Interval: time.Hour, Timeout: time.Minute}

	start := time.Now()
	err := p.Run(context.Background(), wake, func(context.Context, time.Duration) (bool, error) {
		calls++
		if calls == 1 {
			wake <- struct{}{}
			return false, nil
		}
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleep_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, RealClock{}, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSleep_ManualClockAdvances(t *testing.T) {
	clock := NewManualClock(epoch)

	require.NoError(t, Sleep(context.Background(), clock, 30*time.Second))
	assert.Equal(t, epoch.Add(30*time.Second), clock.Now())
}
