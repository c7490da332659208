package countdown

import (
	"sync"
	"time"
)

// Ticker delivers ticks until stopped.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Clock is the source of time for a Timer.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r realTicker) Chan() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()                  { r.t.Stop() }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Timer emits a countdown State once per second for a single target.
// At most one tick loop runs per Timer.
type Timer struct {
	clock    Clock
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTimer creates a stopped Timer. A nil clock means the wall clock.
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = RealClock
	}
	return &Timer{clock: clock, interval: time.Second}
}

// Start begins counting down to target and returns the channel of states.
// The first state is emitted immediately. The channel is closed after the
// completed state is delivered, or when the timer is stopped or restarted.
// A running loop for a previous target is cancelled before the new one starts.
func (t *Timer) Start(target time.Time) <-chan State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.halt()

	stop := make(chan struct{})
	done := make(chan struct{})
	out := make(chan State, 1)
	ticker := t.clock.NewTicker(t.interval)
	t.stop, t.done = stop, done

	go t.run(target, ticker, out, stop, done)
	return out
}

// Stop cancels the tick loop and releases its ticker. It is safe to call on
// a stopped timer and to call more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halt()
}

func (t *Timer) halt() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}

func (t *Timer) run(target time.Time, ticker Ticker, out chan<- State, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(out)
	defer ticker.Stop()

	emit := func(s State) bool {
		select {
		case out <- s:
			return !s.Completed
		case <-stop:
			return false
		}
	}

	if !emit(Compute(target, t.clock.Now())) {
		return
	}
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !emit(Compute(target, t.clock.Now())) {
				return
			}
		}
	}
}
