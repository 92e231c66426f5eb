package readiness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWait_ReadyImmediately(t *testing.T) {
	calls := 0
	probe := func(ctx context.Context) (State, string) {
		calls++
		return Ready, "deployment READY"
	}

	res := Wait(context.Background(), probe, Options{Interval: time.Second, Budget: 10 * time.Second})

	assert.True(t, res.Verified)
	assert.Equal(t, "ready", res.TerminalState)
	assert.Equal(t, "deployment READY", res.Detail)
	assert.Equal(t, 1, calls)
}

func TestWait_FailedStopsPolling(t *testing.T) {
	calls := 0
	probe := func(ctx context.Context) (State, string) {
		calls++
		return Failed, "build failed"
	}

	start := time.Now()
	res := Wait(context.Background(), probe, Options{Interval: time.Second, Budget: 30 * time.Second})

	assert.False(t, res.Verified)
	assert.Equal(t, "failed", res.TerminalState)
	assert.Equal(t, 1, calls, "terminal negative must not be re-polled")
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_CanceledStopsPolling(t *testing.T) {
	probe := func(ctx context.Context) (State, string) {
		return Canceled, "deployment canceled"
	}

	res := Wait(context.Background(), probe, Options{Interval: time.Second, Budget: 30 * time.Second})

	assert.False(t, res.Verified)
	assert.Equal(t, "canceled", res.TerminalState)
}

func TestWait_NotReadyTimesOutNearBudget(t *testing.T) {
	calls := 0
	probe := func(ctx context.Context) (State, string) {
		calls++
		return NotReady, "relation does not exist"
	}

	start := time.Now()
	res := Wait(context.Background(), probe, Options{Interval: 10 * time.Millisecond, Budget: 100 * time.Millisecond})
	elapsed := time.Since(start)

	assert.False(t, res.Verified)
	assert.Equal(t, "timeout", res.TerminalState)
	assert.Contains(t, res.Detail, "timed out")
	assert.Contains(t, res.Detail, "relation does not exist")
	assert.GreaterOrEqual(t, calls, 2)
	assert.Less(t, elapsed, 500*time.Millisecond, "must not poll past the budget")
}

func TestWait_BecomesReadyAfterRetries(t *testing.T) {
	calls := 0
	probe := func(ctx context.Context) (State, string) {
		calls++
		if calls < 3 {
			return NotReady, "still provisioning"
		}
		return Ready, "tables present"
	}

	res := Wait(context.Background(), probe, Options{Interval: 5 * time.Millisecond, Budget: time.Second})

	assert.True(t, res.Verified)
	assert.Equal(t, 3, calls)
}

func TestWait_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	probe := func(ctx context.Context) (State, string) {
		return NotReady, ""
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := Wait(ctx, probe, Options{Interval: 50 * time.Millisecond, Budget: time.Minute})

	assert.False(t, res.Verified)
	assert.Equal(t, "canceled", res.TerminalState)
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, Ready.Terminal())
	assert.True(t, Failed.Terminal())
	assert.True(t, Canceled.Terminal())
	assert.False(t, NotReady.Terminal())
}
