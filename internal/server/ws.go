package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"Fireside/internal/dialog"
	"Fireside/internal/present"
	"Fireside/internal/script"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type   string `json:"type"`
	Dialog int    `json:"dialog,omitempty"`
	Lang   string `json:"lang,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Delta  int    `json:"delta,omitempty"`
}

// wsSession is one connected client. It implements both present.Surface
// (pushing rendered text and options out over the socket) and
// present.Input (draining button presses the read loop latched).
type wsSession struct {
	id   string
	app  *App
	conn *websocket.Conn
	log  zerolog.Logger

	writeMu sync.Mutex

	inputMu sync.Mutex
	confirm bool
	cancel  bool
	nav     int

	runMu     sync.Mutex
	running   bool
	ctrl      *present.Controller
	cancelRun context.CancelFunc
}

func (s *wsSession) send(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		s.log.Debug().Err(err).Msg("write failed")
	}
}

// Surface.

func (s *wsSession) SetText(text, cursor string) {
	s.send(lineMsg{Type: "line", Text: text, Cursor: cursor})
}

func (s *wsSession) SetExpression(id int) {
	s.send(expressionMsg{Type: "expression", ID: id})
}

func (s *wsSession) SetOptions(opts []dialog.DisplayOption) {
	dtos := make([]optionDTO, len(opts))
	for i, o := range opts {
		dtos[i] = optionDTO{Text: o.Text, Disabled: o.Disabled}
	}
	s.send(optionsMsg{Type: "options", Options: dtos})
}

func (s *wsSession) ClearOptions() {
	s.send(optionsMsg{Type: "options_clear"})
}

// Input. Presses are latched by the read loop and consumed one-shot
// when the controller polls.

func (s *wsSession) ConfirmPressed() bool {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	v := s.confirm
	s.confirm = false
	return v
}

func (s *wsSession) CancelPressed() bool {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	v := s.cancel
	s.cancel = false
	return v
}

func (s *wsSession) Navigate() int {
	s.inputMu.Lock()
	defer s.inputMu.Unlock()
	v := s.nav
	s.nav = 0
	return v
}

func (s *wsSession) latch(set func()) {
	s.inputMu.Lock()
	set()
	s.inputMu.Unlock()
}

func parseFloatOverride(values url.Values, key string) (*float64, bool) {
	raw := values.Get(key)
	if raw == "" {
		return nil, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &val, true
}

func parsePresentationOverrides(values url.Values) (PresentationOverrides, bool) {
	var overrides PresentationOverrides
	var found bool

	if v, ok := parseFloatOverride(values, "charDelay"); ok {
		overrides.CharDelay = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "blinkPeriod"); ok {
		overrides.BlinkPeriod = v
		found = true
	}
	if v, ok := parseFloatOverride(values, "dwell"); ok {
		overrides.AutoAdvanceDwell = v
		found = true
	}
	return overrides, found
}

func serveWS(app *App, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	params := app.params
	if overrides, ok := parsePresentationOverrides(r.URL.Query()); ok {
		params = applyPresentationOverrides(params, overrides)
	}

	id := uuid.NewString()
	s := &wsSession{
		id:   id,
		app:  app,
		conn: conn,
		log:  app.log.With().Str("session", id[:8]).Logger(),
	}
	s.send(helloMsg{
		Type:      "hello",
		Session:   s.id,
		Languages: app.cache.Languages(),
		Language:  app.cache.Language(),
	})
	s.readLoop(params)
}

func (s *wsSession) readLoop(params PresentationParams) {
	defer func() {
		s.stopRun()
		s.conn.Close()
	}()
	for {
		var msg inboundMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.log.Debug().Err(err).Msg("read loop done")
			return
		}
		switch msg.Type {
		case "start":
			s.startDialog(msg, params)
		case "confirm":
			s.latch(func() { s.confirm = true })
		case "cancel":
			s.latch(func() { s.cancel = true })
		case "nav":
			delta := msg.Delta
			s.latch(func() { s.nav += delta })
		case "skip":
			s.latch(func() { s.confirm = true })
		case "language":
			ok := s.app.cache.SetLanguage(s.app.cache.ResolveLanguage(msg.Lang))
			s.send(languageMsg{Type: "language", Language: s.app.cache.Language(), OK: ok})
		default:
			s.log.Debug().Str("type", msg.Type).Msg("unknown message")
		}
	}
}

func (s *wsSession) startDialog(msg inboundMessage, params PresentationParams) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		s.send(errorMsg{Type: "error", Message: "dialog already running"})
		return
	}
	s.running = true
	s.runMu.Unlock()

	policy := present.Interactive()
	if msg.Mode == "auto" {
		policy = present.AutoAdvance(params.AutoAdvanceDwell)
	}

	// Each connection gets its own world state so sessions cannot
	// observe each other's flags or items.
	state := NewMemoryState()
	items := NewMemoryInventory()
	catalog := DefaultCatalog()
	eval := &dialog.Evaluator{State: state, Items: items, Catalog: catalog, Log: s.log}

	ctrl := present.New(present.Config{
		Cache:      s.app.cache,
		Resolver:   &dialog.Resolver{Eval: eval},
		Dispatcher: &dialog.Dispatcher{State: state, Items: items, Catalog: catalog, Eval: eval, Log: s.log},
		Surface:    s,
		Input:      s,
		Policy:     policy,
		Script: script.Options{
			CharDelay:   params.CharDelay,
			BlinkPeriod: params.BlinkPeriod,
		},
		ReadyTimeout: time.Duration(params.ReadyTimeoutS * float64(time.Second)),
		PollInterval: time.Duration(params.PollIntervalS * float64(time.Second)),
		Log:          s.log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.runMu.Lock()
	s.ctrl = ctrl
	s.cancelRun = cancel
	s.runMu.Unlock()

	go func() {
		err := ctrl.Run(ctx, msg.Lang, msg.Dialog)
		if err != nil && err != context.Canceled {
			s.send(errorMsg{Type: "error", Message: err.Error()})
		} else {
			s.send(endMsg{Type: "end"})
		}
		s.runMu.Lock()
		s.running = false
		s.ctrl = nil
		s.cancelRun = nil
		s.runMu.Unlock()
		cancel()
	}()
}

func (s *wsSession) stopRun() {
	s.runMu.Lock()
	ctrl, cancel := s.ctrl, s.cancelRun
	s.runMu.Unlock()
	if cancel != nil {
		cancel()
	}
	if ctrl != nil {
		ctrl.Close()
	}
}
