package server

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"Fireside/internal/dialog"
)

// AppConfig carries everything main collected from flags before
// handing control to the server package.
type AppConfig struct {
	Addr             string
	ConfigPath       string
	EngineConfigPath string
	Overrides        PresentationOverrides
}

// App is the shared state behind every WebSocket session: the dialog
// cache, the resolved presentation tuning, and the root logger.
type App struct {
	cfg    ServerConfig
	params PresentationParams
	cache  *dialog.Cache
	log    zerolog.Logger
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// StartApp wires the cache, config, and HTTP server together and
// blocks serving requests.
func StartApp(ac AppConfig) error {
	sc, err := LoadServerConfig(ac.ConfigPath)
	if err != nil {
		sc = DefaultServerConfig()
	}
	if ac.Addr != "" {
		sc.Addr = ac.Addr
	}
	logger := newLogger(sc.LogLevel)
	if err != nil && ac.ConfigPath != "" {
		logger.Warn().Err(err).Str("path", ac.ConfigPath).Msg("server config not loaded, using defaults")
	}

	params, perr := loadPresentationParamsFromFile(ac.EngineConfigPath, DefaultPresentationParams())
	if perr != nil {
		logger.Warn().Err(perr).Msg("engine config not loaded, using defaults")
	}
	params = applyPresentationOverrides(params, ac.Overrides)

	cache := dialog.NewCache(sc.LegacyCacheDir, logger)
	go func() {
		n := cache.LoadAllLanguages(sc.DialogsPath)
		if n > 0 {
			code := cache.ResolveLanguage(sc.DefaultLanguage)
			if !cache.SetLanguage(code) {
				logger.Warn().Str("language", code).Msg("default language not loaded")
			}
		}
		logger.Info().Int("definitions", n).Strs("languages", cache.Languages()).Msg("dialog cache populated")
	}()

	app := &App{cfg: sc, params: params, cache: cache, log: logger}
	return startServer(app)
}
