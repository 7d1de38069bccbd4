package server

import (
	_ "embed"
	"net/http"
	"time"
)

//go:generate go run ./cmd/webbuild

/* ------------------------------ Embeds ------------------------------ */

//go:embed web/index.html
var htmlIndex []byte

//go:embed web/client.js
var jsClient []byte

/* ------------------------------- HTTP ------------------------------- */

func startServer(app *App) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlIndex)
	})
	mux.HandleFunc("/client.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(jsClient)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(app, w, r)
	})

	srv := &http.Server{
		Addr:         app.cfg.Addr,
		Handler:      mux,
		ReadTimeout:  time.Duration(app.cfg.ReadTimeout),
		WriteTimeout: time.Duration(app.cfg.WriteTimeout),
	}
	app.log.Info().Str("addr", app.cfg.Addr).Msg("listening")
	return srv.ListenAndServe()
}
