package script

import (
	"sync"
	"sync/atomic"
	"time"
)

// Runner executes one compiled line program at a time, applying each
// step's mutation to the visible buffer and suspending for its delay.
//
// The skip flag cancels pacing only: once set, every remaining delay in
// the current line is a no-op while mutations still happen in full and
// in order. It resets on Reset at the start of every line.
type Runner struct {
	// Sleep is the suspension primitive; nil means time.Sleep. Tests
	// inject a recording sleeper.
	Sleep func(time.Duration)

	mu   sync.Mutex
	buf  []rune
	skip atomic.Bool
}

// Reset clears the buffer and the skip flag for a new line.
func (r *Runner) Reset() {
	r.mu.Lock()
	r.buf = r.buf[:0]
	r.mu.Unlock()
	r.skip.Store(false)
}

// Skip makes every remaining suspension in the current line a no-op.
func (r *Runner) Skip() { r.skip.Store(true) }

// Skipped reports whether the current line's pacing is cancelled.
func (r *Runner) Skipped() bool { return r.skip.Load() }

// Text returns the currently revealed buffer.
func (r *Runner) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.buf)
}

// Run executes the program. observe is called after each step's
// mutation and before its suspension, so callers can push the buffer to
// a surface and sample input once per step. Returns the final text.
func (r *Runner) Run(p Program, observe func(Step)) string {
	for _, st := range p.Steps {
		r.mu.Lock()
		switch st.Kind {
		case StepAppend:
			r.buf = append(r.buf, st.Ch)
		case StepErase:
			if len(r.buf) > 0 {
				r.buf = r.buf[:len(r.buf)-1]
			}
		}
		r.mu.Unlock()

		if observe != nil {
			observe(st)
		}
		if st.Delay > 0 && !r.skip.Load() {
			r.sleep(st.Delay)
		}
	}
	return r.Text()
}

func (r *Runner) sleep(seconds float64) {
	d := time.Duration(seconds * float64(time.Second))
	if d <= 0 {
		return
	}
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}
