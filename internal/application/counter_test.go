package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake clock ---

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) ticker(i int) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[i]
}

// --- DisplayedValue ---

func TestDisplayedValue_Endpoints(t *testing.T) {
	tests := []struct {
		name     string
		end      int
		duration time.Duration
	}{
		{"stat counter", 2293, 2 * time.Second},
		{"percentage", 95, 2 * time.Second},
		{"single unit", 1, 500 * time.Millisecond},
		{"zero target", 0, time.Second},
		{"odd duration", 1500, 1337 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, DisplayedValue(tt.end, tt.duration, 0))
			assert.Equal(t, tt.end, DisplayedValue(tt.end, tt.duration, tt.duration))
			assert.Equal(t, tt.end, DisplayedValue(tt.end, tt.duration, 3*tt.duration))
		})
	}
}

func TestDisplayedValue_Monotonic(t *testing.T) {
	for _, end := range []int{0, 1, 7, 50, 95, 2293, 100000} {
		duration := 2 * time.Second
		prev := 0
		for elapsed := time.Duration(0); elapsed <= duration+100*time.Millisecond; elapsed += 7 * time.Millisecond {
			v := DisplayedValue(end, duration, elapsed)
			require.GreaterOrEqual(t, v, prev, "end=%d elapsed=%s", end, elapsed)
			require.LessOrEqual(t, v, end)
			prev = v
		}
	}
}

func TestDisplayedValue_Midpoint(t *testing.T) {
	assert.Equal(t, 1147, DisplayedValue(2293, 2*time.Second, time.Second))
	assert.Equal(t, 48, DisplayedValue(95, 2*time.Second, time.Second))
}

// --- Counter state machine ---

func TestNewCounter_ClampsNegativeEnd(t *testing.T) {
	c := NewCounter(CounterSpec{End: -5, Suffix: "+"}, newFakeClock())
	assert.Equal(t, 0, c.Spec().End)
	assert.Equal(t, DefaultCounterDuration, c.Spec().Duration)
}

func TestCounter_IdleShowsZero(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 50, Suffix: "+", Duration: time.Second}, clock)

	clock.Advance(10 * time.Second)

	assert.Equal(t, CounterIdle, c.State())
	assert.Equal(t, 0, c.Value())
	assert.Equal(t, "0+", c.Display())
}

func TestCounter_StudentsPlacedScenario(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 2293, Suffix: "+", Duration: 2000 * time.Millisecond}, clock)

	require.True(t, c.Visible())
	assert.Equal(t, CounterAnimating, c.State())
	assert.Equal(t, 0, c.Value())

	clock.Advance(1000 * time.Millisecond)
	v := c.Value()
	assert.Greater(t, v, 0)
	assert.Less(t, v, 2293)
	assert.Equal(t, FormatCounter(v, "+"), c.Display())

	clock.Advance(1000 * time.Millisecond)
	assert.Equal(t, 2293, c.Value())
	assert.Equal(t, CounterDone, c.State())
	assert.Equal(t, "2293+", c.Display())
}

func TestCounter_VisibleAfterDoneIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 95, Suffix: "%", Duration: time.Second}, clock)

	require.True(t, c.Visible())
	clock.Advance(2 * time.Second)
	require.Equal(t, 95, c.Value())

	assert.False(t, c.Visible())
	assert.Equal(t, CounterDone, c.State())
	clock.Advance(time.Hour)
	assert.Equal(t, 95, c.Value())
	assert.Equal(t, "95%", c.Display())
}

func TestCounter_VisibleWhileAnimatingDoesNotRestart(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 1000, Duration: time.Second}, clock)

	require.True(t, c.Visible())
	clock.Advance(500 * time.Millisecond)
	before := c.Value()

	assert.False(t, c.Visible())
	assert.Equal(t, before, c.Value())
}

func TestCounterState_String(t *testing.T) {
	assert.Equal(t, "idle", CounterIdle.String())
	assert.Equal(t, "animating", CounterAnimating.String())
	assert.Equal(t, "done", CounterDone.String())
	assert.Equal(t, "unknown", CounterState(42).String())
}

// --- Animate ---

type animateRun struct {
	frames  chan CounterFrame
	visible chan struct{}
	done    chan error
	cancel  context.CancelFunc
}

func startAnimate(t *testing.T, c *Counter, emitErr error) *animateRun {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	run := &animateRun{
		frames:  make(chan CounterFrame, 16),
		visible: make(chan struct{}),
		done:    make(chan error, 1),
		cancel:  cancel,
	}
	t.Cleanup(cancel)

	go func() {
		run.done <- Animate(ctx, c, 10*time.Millisecond, run.visible, func(f CounterFrame) error {
			run.frames <- f
			return emitErr
		})
	}()
	return run
}

func waitForTicker(t *testing.T, clock *fakeClock, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return clock.tickerCount() >= n }, time.Second, time.Millisecond)
}

func TestAnimate_RunsToCompletionAndStopsTicker(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 2293, Suffix: "+", Duration: 2 * time.Second}, clock)
	run := startAnimate(t, c, nil)

	// No ticker while idle.
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 0, clock.tickerCount())

	run.visible <- struct{}{}
	waitForTicker(t, clock, 1)
	ticker := clock.ticker(0)

	clock.Advance(time.Second)
	ticker.c <- clock.Now()
	mid := <-run.frames
	assert.Greater(t, mid.Value, 0)
	assert.Less(t, mid.Value, 2293)
	assert.Equal(t, FormatCounter(mid.Value, "+"), mid.Display)
	assert.False(t, mid.Done)

	clock.Advance(time.Second)
	ticker.c <- clock.Now()
	last := <-run.frames
	assert.Equal(t, CounterFrame{Value: 2293, Display: "2293+", Done: true}, last)

	select {
	case err := <-run.done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Animate did not return after completion")
	}
	assert.True(t, ticker.isStopped())
	assert.Equal(t, 1, clock.tickerCount())
}

func TestAnimate_RepeatedVisibilityCreatesOneTicker(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 50, Duration: time.Second}, clock)
	run := startAnimate(t, c, nil)

	run.visible <- struct{}{}
	run.visible <- struct{}{}
	run.visible <- struct{}{}
	waitForTicker(t, clock, 1)

	assert.Equal(t, 1, clock.tickerCount())
	run.cancel()
	require.NoError(t, <-run.done)
}

func TestAnimate_CancelStopsTicker(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 50, Duration: time.Second}, clock)
	run := startAnimate(t, c, nil)

	run.visible <- struct{}{}
	waitForTicker(t, clock, 1)

	run.cancel()
	select {
	case err := <-run.done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Animate did not return after cancel")
	}
	assert.True(t, clock.ticker(0).isStopped())
	assert.Equal(t, CounterAnimating, c.State())
}

func TestAnimate_CancelWhileIdle(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 50, Duration: time.Second}, clock)
	run := startAnimate(t, c, nil)

	run.cancel()
	require.NoError(t, <-run.done)
	assert.Equal(t, 0, clock.tickerCount())
	assert.Equal(t, CounterIdle, c.State())
}

func TestAnimate_EmitErrorStopsTicker(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(CounterSpec{End: 50, Duration: time.Second}, clock)
	errClosed := errors.New("socket closed")
	run := startAnimate(t, c, errClosed)

	run.visible <- struct{}{}
	waitForTicker(t, clock, 1)
	clock.Advance(100 * time.Millisecond)
	clock.ticker(0).c <- clock.Now()
	<-run.frames

	err := <-run.done
	require.ErrorIs(t, err, errClosed)
	assert.True(t, clock.ticker(0).isStopped())
}
