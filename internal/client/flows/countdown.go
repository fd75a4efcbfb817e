package flows

import (
	"sync"
	"time"
)

// Ticker is the part of time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the TickerFactory backed by time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Countdown calls tick once per second on its own goroutine until tick
// returns false or Cancel is called.
type Countdown struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newCountdown() *Countdown {
	return &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (c *Countdown) start(newTicker TickerFactory, tick func() bool) {
	t := newTicker(time.Second)

	go func() {
		defer close(c.done)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C():
				if !tick() {
					return
				}
			}
		}
	}()
}

// Cancel stops the countdown and waits for its goroutine to exit. It must
// not be called while holding a lock that tick acquires. Safe on nil.
func (c *Countdown) Cancel() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}

// Done is closed once the goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
