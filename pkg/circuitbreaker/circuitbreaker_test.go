package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("redis: connection refused")

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(t *testing.T, s Settings) (*CircuitBreaker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test", s)
	cb.now = clock.Now
	cb.resetExpiry(clock.Now())
	return cb, clock
}

func fail() error    { return errBackend }
func succeed() error { return nil }

func TestClosedStatePassesRequests(t *testing.T) {
	cb, _ := newTestBreaker(t, Settings{})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(succeed))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(t, Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBackend)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断打开时不应调用下游")
}

func TestHalfOpenRecovers(t *testing.T) {
	cb, clock := newTestBreaker(t, Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	_ = cb.Execute(fail)
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(2 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(t, Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	_ = cb.Execute(fail)
	clock.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errBackend)
	assert.Equal(t, StateOpen, cb.State())
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(t, Settings{
		MaxRequests: 1,
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	_ = cb.Execute(fail)
	clock.Advance(2 * time.Second)

	// 第一个探测请求执行期间,第二个请求应被拒绝
	err := cb.Execute(func() error {
		assert.ErrorIs(t, cb.Execute(succeed), ErrOpenState)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestIntervalResetsCounts(t *testing.T) {
	cb, clock := newTestBreaker(t, Settings{
		Interval:    10 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 3 },
	})

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	clock.Advance(11 * time.Second)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
}

func TestIsSuccessfulOverride(t *testing.T) {
	errMiss := errors.New("miss")
	cb, _ := newTestBreaker(t, Settings{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errMiss)
		},
	})

	assert.ErrorIs(t, cb.Execute(func() error { return errMiss }), errMiss)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.Counts().TotalSuccesses)
}

func TestStateChangeCallback(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(t, Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = cb.Execute(fail)
	clock.Advance(2 * time.Second)
	_ = cb.Execute(succeed)

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestConcurrentExecute(t *testing.T) {
	cb, _ := newTestBreaker(t, Settings{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(succeed)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(50), cb.Counts().TotalSuccesses)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "CLOSED", StateClosed.String())
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "HALF_OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}

func TestIgnoreContextErrors(t *testing.T) {
	assert.True(t, IgnoreContextErrors(nil))
	assert.True(t, IgnoreContextErrors(context.Canceled))
	assert.True(t, IgnoreContextErrors(fmt.Errorf("redis get: %w", context.DeadlineExceeded)))
	assert.False(t, IgnoreContextErrors(errBackend))

	cb, _ := newTestBreaker(t, Settings{
		ReadyToTrip:  func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
		IsSuccessful: IgnoreContextErrors,
	})
	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return context.Canceled })
		assert.ErrorIs(t, err, context.Canceled, "错误仍原样返回给调用方")
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Counts().TotalFailures)
}
