package server

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	def := DefaultServerConfig()
	if cfg.Addr != def.Addr || cfg.DefaultLanguage != def.DefaultLanguage {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadServerConfigParsesDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	body := "addr: \":9090\"\nread_timeout: 5s\nwrite_timeout: 1m\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if time.Duration(cfg.ReadTimeout) != 5*time.Second {
		t.Fatalf("read_timeout = %v", time.Duration(cfg.ReadTimeout))
	}
	if time.Duration(cfg.WriteTimeout) != time.Minute {
		t.Fatalf("write_timeout = %v", time.Duration(cfg.WriteTimeout))
	}
	// Fields absent from the file keep their defaults.
	if cfg.DefaultLanguage != "en-US" {
		t.Fatalf("default_language = %q", cfg.DefaultLanguage)
	}
}

func TestLoadPresentationParamsFromFileMergesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	body := `{"presentation": {"charDelay": 0.02, "autoAdvanceDwell": 2.5}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	params, err := loadPresentationParamsFromFile(path, DefaultPresentationParams())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if params.CharDelay != 0.02 {
		t.Fatalf("CharDelay = %v", params.CharDelay)
	}
	if params.AutoAdvanceDwell != 2.5 {
		t.Fatalf("AutoAdvanceDwell = %v", params.AutoAdvanceDwell)
	}
	if params.BlinkPeriod != DefaultPresentationParams().BlinkPeriod {
		t.Fatalf("BlinkPeriod should keep default, got %v", params.BlinkPeriod)
	}
}

func TestSanitizePresentationParamsClampsNonsense(t *testing.T) {
	p := SanitizePresentationParams(PresentationParams{
		CharDelay:        -1,
		BlinkPeriod:      0,
		AutoAdvanceDwell: -0.5,
		ReadyTimeoutS:    0,
		PollIntervalS:    -1,
	})
	def := DefaultPresentationParams()
	if p != def {
		t.Fatalf("expected full reset to defaults, got %+v", p)
	}
	// Zero char delay is a legal instant-reveal setting.
	p = SanitizePresentationParams(PresentationParams{
		CharDelay:        0,
		BlinkPeriod:      0.25,
		AutoAdvanceDwell: 0,
		ReadyTimeoutS:    1,
		PollIntervalS:    0.01,
	})
	if p.CharDelay != 0 || p.AutoAdvanceDwell != 0 {
		t.Fatalf("zero pacing should survive sanitize, got %+v", p)
	}
}

func TestApplyPresentationOverrides(t *testing.T) {
	delay := 0.1
	period := 0.2
	out := applyPresentationOverrides(DefaultPresentationParams(), PresentationOverrides{
		CharDelay:   &delay,
		BlinkPeriod: &period,
	})
	if out.CharDelay != 0.1 || out.BlinkPeriod != 0.2 {
		t.Fatalf("overrides not applied: %+v", out)
	}
	if out.AutoAdvanceDwell != DefaultPresentationParams().AutoAdvanceDwell {
		t.Fatalf("untouched field changed: %+v", out)
	}
}

func TestParsePresentationOverridesFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("charDelay", "0.01")
	values.Set("blinkPeriod", "junk")
	overrides, found := parsePresentationOverrides(values)
	if !found {
		t.Fatal("expected at least one override")
	}
	if overrides.CharDelay == nil || *overrides.CharDelay != 0.01 {
		t.Fatalf("charDelay override = %+v", overrides.CharDelay)
	}
	if overrides.BlinkPeriod != nil {
		t.Fatal("unparsable value should be ignored")
	}

	if _, found := parsePresentationOverrides(url.Values{}); found {
		t.Fatal("empty query should report no overrides")
	}
}
