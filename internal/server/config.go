package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// duration lets YAML carry values like "30s" or "1m".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = duration(parsed)
	return nil
}

// ServerConfig is the YAML-backed service configuration.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	DialogsPath     string   `yaml:"dialogs_path"`
	LegacyCacheDir  string   `yaml:"legacy_cache_dir"`
	DefaultLanguage string   `yaml:"default_language"`
	LogLevel        string   `yaml:"log_level"`
	ReadTimeout     duration `yaml:"read_timeout"`
	WriteTimeout    duration `yaml:"write_timeout"`
}

// DefaultServerConfig returns the config used when no file is present.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		DialogsPath:     "dialogs",
		DefaultLanguage: "en-US",
		LogLevel:        "info",
		ReadTimeout:     duration(30 * time.Second),
		WriteTimeout:    duration(30 * time.Second),
	}
}

// LoadServerConfig reads the YAML config, falling back to defaults for
// a missing file.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read server config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse server config %q: %w", path, err)
	}
	return cfg, nil
}

// PresentationParams are the reveal-pacing defaults every line starts
// with.
type PresentationParams struct {
	CharDelay        float64 // seconds per revealed rune
	BlinkPeriod      float64 // cursor toggle period
	AutoAdvanceDwell float64 // dwell per line in auto-advance mode
	ReadyTimeoutS    float64 // bounded wait for localization readiness
	PollIntervalS    float64 // input sampling cadence while waiting
}

// DefaultPresentationParams returns the tuning used without a config
// file.
func DefaultPresentationParams() PresentationParams {
	return PresentationParams{
		CharDelay:        0.04,
		BlinkPeriod:      0.5,
		AutoAdvanceDwell: 1.5,
		ReadyTimeoutS:    3.0,
		PollIntervalS:    0.05,
	}
}

// SanitizePresentationParams clamps nonsense values back to defaults.
func SanitizePresentationParams(p PresentationParams) PresentationParams {
	def := DefaultPresentationParams()
	if p.CharDelay < 0 {
		p.CharDelay = def.CharDelay
	}
	if p.BlinkPeriod <= 0 {
		p.BlinkPeriod = def.BlinkPeriod
	}
	if p.AutoAdvanceDwell < 0 {
		p.AutoAdvanceDwell = def.AutoAdvanceDwell
	}
	if p.ReadyTimeoutS <= 0 {
		p.ReadyTimeoutS = def.ReadyTimeoutS
	}
	if p.PollIntervalS <= 0 {
		p.PollIntervalS = def.PollIntervalS
	}
	return p
}

type presentationConfig struct {
	CharDelay        *float64 `json:"charDelay"`
	BlinkPeriod      *float64 `json:"blinkPeriod"`
	AutoAdvanceDwell *float64 `json:"autoAdvanceDwell"`
	ReadyTimeoutS    *float64 `json:"readyTimeoutS"`
	PollIntervalS    *float64 `json:"pollIntervalS"`
}

type engineConfig struct {
	Presentation *presentationConfig `json:"presentation"`
}

// PresentationOverrides represents optional command-line overrides for
// the presentation tuning.
type PresentationOverrides struct {
	CharDelay        *float64
	BlinkPeriod      *float64
	AutoAdvanceDwell *float64
	ReadyTimeoutS    *float64
}

func (o PresentationOverrides) apply(base PresentationParams) PresentationParams {
	if o.CharDelay != nil {
		base.CharDelay = *o.CharDelay
	}
	if o.BlinkPeriod != nil {
		base.BlinkPeriod = *o.BlinkPeriod
	}
	if o.AutoAdvanceDwell != nil {
		base.AutoAdvanceDwell = *o.AutoAdvanceDwell
	}
	if o.ReadyTimeoutS != nil {
		base.ReadyTimeoutS = *o.ReadyTimeoutS
	}
	return SanitizePresentationParams(base)
}

func mergePresentationConfig(base PresentationParams, cfg *presentationConfig) PresentationParams {
	if cfg == nil {
		return base
	}
	if cfg.CharDelay != nil {
		base.CharDelay = *cfg.CharDelay
	}
	if cfg.BlinkPeriod != nil {
		base.BlinkPeriod = *cfg.BlinkPeriod
	}
	if cfg.AutoAdvanceDwell != nil {
		base.AutoAdvanceDwell = *cfg.AutoAdvanceDwell
	}
	if cfg.ReadyTimeoutS != nil {
		base.ReadyTimeoutS = *cfg.ReadyTimeoutS
	}
	if cfg.PollIntervalS != nil {
		base.PollIntervalS = *cfg.PollIntervalS
	}
	return SanitizePresentationParams(base)
}

func loadPresentationParamsFromFile(path string, base PresentationParams) (PresentationParams, error) {
	if path == "" {
		return SanitizePresentationParams(base), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return SanitizePresentationParams(base), nil
		}
		return SanitizePresentationParams(base), fmt.Errorf("read engine config %q: %w", cleanPath, err)
	}
	var cfg engineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SanitizePresentationParams(base), fmt.Errorf("parse engine config %q: %w", cleanPath, err)
	}
	return mergePresentationConfig(base, cfg.Presentation), nil
}

func applyPresentationOverrides(base PresentationParams, overrides PresentationOverrides) PresentationParams {
	return overrides.apply(base)
}
