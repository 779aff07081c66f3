package application

import (
	"context"
	"fmt"
	"math"
	"time"
)

// DefaultCounterDuration is the animation length used when a CounterSpec
// does not set a positive Duration.
const DefaultCounterDuration = 2 * time.Second

// DefaultFrameInterval is the spacing between animation frames.
const DefaultFrameInterval = 50 * time.Millisecond

// CounterState represents the lifecycle stage of an animated counter.
type CounterState int

const (
	// CounterIdle is the state before the counter has been seen. Displays 0.
	CounterIdle CounterState = iota
	// CounterAnimating is the state while the value climbs toward the target.
	CounterAnimating
	// CounterDone is terminal. Displays the target and ignores visibility.
	CounterDone
)

// String returns a human-readable name for the counter state.
func (s CounterState) String() string {
	switch s {
	case CounterIdle:
		return "idle"
	case CounterAnimating:
		return "animating"
	case CounterDone:
		return "done"
	default:
		return "unknown"
	}
}

// CounterSpec configures a single counter instance. It is immutable once the
// counter is constructed.
type CounterSpec struct {
	End      int
	Suffix   string
	Duration time.Duration
}

// CounterFrame is one rendered step of a counter animation.
type CounterFrame struct {
	Value   int
	Display string
	Done    bool
}

// Clock abstracts time so counter animations can be driven deterministically.
// Now must carry a monotonic reading; elapsed time is computed with Time.Sub.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the animation loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the wall clock backed by the time package.
type SystemClock struct{}

// Now returns time.Now(), which includes a monotonic clock reading.
func (SystemClock) Now() time.Time { return time.Now() }

// NewTicker wraps time.NewTicker.
func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// Counter animates a displayed number from 0 to a target once the element
// becomes visible. Transitions: idle -> animating on the first Visible call,
// animating -> done once the duration has elapsed, done -> done forever.
//
// Counter is not safe for concurrent use. Animate owns the counter for the
// lifetime of a mount and serializes visibility events with frame ticks.
type Counter struct {
	spec      CounterSpec
	clock     Clock
	state     CounterState
	startedAt time.Time
}

// NewCounter creates an idle counter. A negative End is clamped to 0 and a
// non-positive Duration falls back to DefaultCounterDuration. A nil clock
// uses SystemClock.
func NewCounter(spec CounterSpec, clock Clock) *Counter {
	if spec.End < 0 {
		spec.End = 0
	}
	if spec.Duration <= 0 {
		spec.Duration = DefaultCounterDuration
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Counter{spec: spec, clock: clock}
}

// Spec returns the normalized spec the counter was built with.
func (c *Counter) Spec() CounterSpec { return c.spec }

// State returns the current lifecycle state.
func (c *Counter) State() CounterState { return c.state }

// Visible records that the element entered the viewport. It returns true only
// when this call started the animation; in any other state it is a no-op.
func (c *Counter) Visible() bool {
	if c.state != CounterIdle {
		return false
	}
	c.state = CounterAnimating
	c.startedAt = c.clock.Now()
	return true
}

// Value returns the number to display right now. Reading the value after the
// duration has elapsed moves the counter to CounterDone.
func (c *Counter) Value() int {
	switch c.state {
	case CounterIdle:
		return 0
	case CounterDone:
		return c.spec.End
	}

	elapsed := c.clock.Now().Sub(c.startedAt)
	if elapsed >= c.spec.Duration {
		c.state = CounterDone
		return c.spec.End
	}
	return DisplayedValue(c.spec.End, c.spec.Duration, elapsed)
}

// Display returns the current value followed by the suffix, e.g. "1147+".
func (c *Counter) Display() string {
	return FormatCounter(c.Value(), c.spec.Suffix)
}

// Frame samples the counter into a CounterFrame.
func (c *Counter) Frame() CounterFrame {
	v := c.Value()
	return CounterFrame{
		Value:   v,
		Display: FormatCounter(v, c.spec.Suffix),
		Done:    c.state == CounterDone,
	}
}

// DisplayedValue computes round(end * min(elapsed/duration, 1)). It is 0 for
// non-positive elapsed time and end for elapsed >= duration.
func DisplayedValue(end int, duration, elapsed time.Duration) int {
	if end <= 0 || elapsed <= 0 {
		return 0
	}
	if duration <= 0 || elapsed >= duration {
		return end
	}
	progress := float64(elapsed) / float64(duration)
	return int(math.Round(float64(end) * progress))
}

// FormatCounter renders a counter value with its suffix.
func FormatCounter(value int, suffix string) string {
	return fmt.Sprintf("%d%s", value, suffix)
}

// Animate runs the event loop of one mounted counter. Each receive on visible
// is a viewport visibility signal. A ticker is created only when the animation
// starts and is stopped when the counter finishes, when ctx is cancelled
// (the element unmounted) or when emit fails. Animate returns nil on
// completion or cancellation and the emit error otherwise.
func Animate(ctx context.Context, c *Counter, frameInterval time.Duration, visible <-chan struct{}, emit func(CounterFrame) error) error {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}

	var (
		ticker Ticker
		tick   <-chan time.Time
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-visible:
			if !ok {
				// No more visibility signals; wait for unmount or completion.
				visible = nil
				continue
			}
			if !c.Visible() {
				continue
			}
			ticker = c.clock.NewTicker(frameInterval)
			tick = ticker.C()

		case <-tick:
			frame := c.Frame()
			if err := emit(frame); err != nil {
				return fmt.Errorf("emit counter frame: %w", err)
			}
			if frame.Done {
				ticker.Stop()
				ticker = nil
				return nil
			}
		}
	}
}
