package present

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"Fireside/internal/dialog"
	"Fireside/internal/script"
)

// cursorGlyph terminates the revealed text while the blink loop has the
// cursor on.
const cursorGlyph = "▌"

var (
	// ErrLineActive is returned when a line presentation is requested
	// while one is already in flight. Requests are rejected, not queued.
	ErrLineActive = errors.New("present: line already in flight")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("present: controller closed")
	// ErrNoDefinition is returned when the requested dialog cannot be
	// served from any cache. The caller shows nothing.
	ErrNoDefinition = errors.New("present: definition not available")
)

// Config wires a Controller to the engine and its collaborators.
type Config struct {
	Cache      *dialog.Cache
	Resolver   *dialog.Resolver
	Dispatcher *dialog.Dispatcher
	Surface    Surface
	Input      Input
	Policy     Policy

	// Script holds the pacing defaults in effect at every line start.
	Script script.Options
	// ReadyTimeout bounds the wait for the localization subsystem; on
	// timeout playback proceeds with whatever is loaded.
	ReadyTimeout time.Duration
	// PollInterval is the input sampling cadence while waiting.
	PollInterval time.Duration
	// Sleep is the suspension primitive; nil means time.Sleep.
	Sleep func(time.Duration)

	Log zerolog.Logger
}

// Session is the presentation-independent dialog position, serializable
// in the same way the rest of the game snapshots player state.
type Session struct {
	SourceID int           `json:"source_id"`
	NodeID   dialog.NodeID `json:"node_id"`
	Language string        `json:"language"`
}

// Controller runs dialog playback as an explicit step loop in a single
// goroutine. Only one line presentation may be in flight per instance.
type Controller struct {
	cfg    Config
	runner script.Runner

	mu      sync.Mutex
	active  bool
	closed  bool
	blinker *script.Blinker
	session Session

	cursorMu sync.Mutex
	cursorOn bool
}

// New creates a controller. Zero Config durations get usable defaults.
func New(cfg Config) *Controller {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 3 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 50 * time.Millisecond
	}
	c := &Controller{cfg: cfg}
	c.runner.Sleep = cfg.Sleep
	return c
}

// Session returns the current dialog position.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Skip cancels the pacing of the line currently in flight. Content and
// control flow are unaffected.
func (c *Controller) Skip() { c.runner.Skip() }

// Close stops any blink loop and refuses further playback.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.stopBlinker()
}

// Run plays the dialog identified by sourceID from its resolved initial
// node until a terminal id. lang is the requested language code; it is
// resolved against the loaded buckets, falling back per the locale
// rules. A language switch mid-dialog re-fetches the definition before
// the next line.
func (c *Controller) Run(ctx context.Context, lang string, sourceID int) error {
	if !c.cfg.Cache.WaitReady(c.cfg.ReadyTimeout) {
		c.cfg.Log.Warn().Int("source", sourceID).Msg("localization not ready in time, proceeding with fallback")
	}
	resolved := c.cfg.Cache.ResolveLanguage(lang)
	def, ok := c.cfg.Cache.Definition(resolved, sourceID)
	if !ok {
		return ErrNoDefinition
	}
	c.setSession(Session{SourceID: sourceID, Language: def.Language})

	id := c.cfg.Resolver.ResolveInitial(def)
	for id > 0 {
		if c.isClosed() {
			return ErrClosed
		}
		def = c.refetchOnLanguageSwitch(def, sourceID)

		node := def.Node(id)
		if node == nil {
			c.cfg.Log.Warn().Int("source", sourceID).Int("node", int(id)).Msg("resolved node missing from definition")
			break
		}
		c.setSession(Session{SourceID: sourceID, NodeID: id, Language: def.Language})

		if err := c.PlayLine(ctx, node); err != nil {
			c.stopBlinker()
			return err
		}

		// Display options are recomputed from the raw definition here
		// and again inside ResolveOptionTarget; they must agree.
		opts := c.cfg.Resolver.DisplayOptions(node)
		if len(opts) > 0 {
			choice := c.pickOption(ctx, opts)
			c.stopBlinker()
			if choice < 0 {
				break
			}
			id = c.cfg.Resolver.ResolveOptionTarget(def, node.ID, choice, node.Next)
		} else {
			c.awaitAdvance(ctx)
			c.stopBlinker()
			id = c.cfg.Resolver.ResolveNext(def, node.ID)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	c.stopBlinker()
	c.cfg.Surface.SetText("", "")
	return nil
}

// PlayLine presents one node's text: reset the skip flag, compile the
// markup, reveal step by step, then execute the line's events. A second
// call while a line is in flight returns ErrLineActive.
func (c *Controller) PlayLine(ctx context.Context, node *dialog.Node) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.active {
		c.mu.Unlock()
		return ErrLineActive
	}
	c.active = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
	}()

	c.runner.Reset()
	c.cfg.Surface.SetExpression(node.Expression)
	c.startBlinker()

	prog := script.Compile(node.Text, c.cfg.Script)
	c.runner.Run(prog, func(st script.Step) {
		if st.Kind == script.StepBlink {
			c.setBlinkPeriod(st.Period)
		}
		c.pushText()
		if ctx.Err() != nil {
			c.runner.Skip()
			return
		}
		// Input is sampled once per step; confirm or cancel during the
		// reveal cancels pacing for the rest of the line.
		if c.cfg.Input.ConfirmPressed() || c.cfg.Input.CancelPressed() {
			c.runner.Skip()
		}
	})
	c.pushText()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	// Events run only after the text is fully revealed.
	c.cfg.Dispatcher.ExecuteLineEvents(node.Events)
	return nil
}

func (c *Controller) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) refetchOnLanguageSwitch(def *dialog.Definition, sourceID int) *dialog.Definition {
	cur := c.cfg.Cache.Language()
	if cur == "" || cur == def.Language {
		return def
	}
	fresh, ok := c.cfg.Cache.Definition(cur, sourceID)
	if !ok {
		return def
	}
	c.cfg.Log.Info().Str("from", def.Language).Str("to", cur).Int("source", sourceID).Msg("language switched mid-dialog, definition re-fetched")
	return fresh
}

// awaitAdvance holds the completed line per policy: confirm-gated or a
// fixed dwell.
func (c *Controller) awaitAdvance(ctx context.Context) {
	if !c.cfg.Policy.WaitForConfirm {
		c.sleep(time.Duration(c.cfg.Policy.AdvanceDelay * float64(time.Second)))
		return
	}
	for ctx.Err() == nil && !c.isClosed() {
		if c.cfg.Input.ConfirmPressed() {
			return
		}
		c.sleep(c.cfg.PollInterval)
	}
}

// pickOption shows the display list and returns the selected display
// index, or -1 for cancel/close.
func (c *Controller) pickOption(ctx context.Context, opts []dialog.DisplayOption) int {
	c.cfg.Surface.SetOptions(opts)
	defer c.cfg.Surface.ClearOptions()

	if c.cfg.Policy.AutoPickFirst {
		if c.cfg.Policy.AdvanceDelay > 0 {
			c.sleep(time.Duration(c.cfg.Policy.AdvanceDelay * float64(time.Second)))
		}
		return 0
	}

	sel := 0
	for ctx.Err() == nil && !c.isClosed() {
		if d := c.cfg.Input.Navigate(); d != 0 {
			sel += d
			if sel < 0 {
				sel = 0
			}
			if sel >= len(opts) {
				sel = len(opts) - 1
			}
		}
		if c.cfg.Input.ConfirmPressed() {
			return sel
		}
		if c.cfg.Input.CancelPressed() {
			return -1
		}
		c.sleep(c.cfg.PollInterval)
	}
	return -1
}

func (c *Controller) pushText() {
	cursor := ""
	c.cursorMu.Lock()
	if c.cursorOn {
		cursor = cursorGlyph
	}
	c.cursorMu.Unlock()
	c.cfg.Surface.SetText(c.runner.Text(), cursor)
}

func (c *Controller) startBlinker() {
	c.stopBlinker()
	period := c.cfg.Script.BlinkPeriod
	b := script.StartBlinker(period, func(on bool) {
		c.cursorMu.Lock()
		c.cursorOn = on
		c.cursorMu.Unlock()
		c.pushText()
	})
	c.mu.Lock()
	c.blinker = b
	c.mu.Unlock()
}

func (c *Controller) setBlinkPeriod(period float64) {
	c.mu.Lock()
	b := c.blinker
	c.mu.Unlock()
	if b != nil {
		b.SetPeriod(period)
	}
}

// stopBlinker halts the blink loop if one is running. It is called at
// line end and on Close; a leaked loop against a torn-down buffer is a
// bug, not a tolerated leak.
func (c *Controller) stopBlinker() {
	c.mu.Lock()
	b := c.blinker
	c.blinker = nil
	c.mu.Unlock()
	if b != nil {
		b.Stop()
	}
}

func (c *Controller) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if c.cfg.Sleep != nil {
		c.cfg.Sleep(d)
		return
	}
	time.Sleep(d)
}
