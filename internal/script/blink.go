package script

import (
	"sync"
	"sync/atomic"
	"time"
)

// Blinker toggles a terminator glyph on an independent cadence, apart
// from reveal pacing. It must be explicitly stopped when the line ends
// or the dialog closes; abandoning it leaks a loop against a torn-down
// buffer.
type Blinker struct {
	toggle   func(on bool)
	periodNs atomic.Int64

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartBlinker launches the blink loop. toggle is invoked with the
// cursor visibility on every half-period and once with false on stop.
func StartBlinker(period float64, toggle func(on bool)) *Blinker {
	b := &Blinker{
		toggle: toggle,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	b.SetPeriod(period)
	go b.loop()
	return b
}

// SetPeriod changes the toggle period, effective from the next tick.
func (b *Blinker) SetPeriod(seconds float64) {
	if seconds <= 0 {
		seconds = 0.5
	}
	b.periodNs.Store(int64(seconds * float64(time.Second)))
}

// Stop halts the loop, clears the glyph, and waits for the loop to
// exit. It is idempotent.
func (b *Blinker) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	<-b.done
}

func (b *Blinker) loop() {
	defer close(b.done)
	on := false
	for {
		timer := time.NewTimer(time.Duration(b.periodNs.Load()))
		select {
		case <-b.stop:
			timer.Stop()
			b.toggle(false)
			return
		case <-timer.C:
			on = !on
			b.toggle(on)
		}
	}
}
