package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"Fireside/internal/server"
)

func main() {
	addr := flag.String("addr", "", "address to listen on (e.g., 127.0.0.1:8080), overrides config")
	configPath := flag.String("config", "configs/server.yaml", "path to server YAML config")
	engineConfigPath := flag.String("engine-config", "configs/engine.json", "path to presentation tuning JSON")
	charDelay := flag.Float64("char-delay", math.NaN(), "override seconds per revealed character")
	blinkPeriod := flag.Float64("blink-period", math.NaN(), "override cursor blink period in seconds")
	dwell := flag.Float64("dwell", math.NaN(), "override auto-advance dwell in seconds")
	readyTimeout := flag.Float64("ready-timeout", math.NaN(), "override localization-ready wait in seconds")
	flag.Parse()

	var overrides server.PresentationOverrides

	if !math.IsNaN(*charDelay) {
		val := *charDelay
		overrides.CharDelay = &val
	}
	if !math.IsNaN(*blinkPeriod) {
		val := *blinkPeriod
		overrides.BlinkPeriod = &val
	}
	if !math.IsNaN(*dwell) {
		val := *dwell
		overrides.AutoAdvanceDwell = &val
	}
	if !math.IsNaN(*readyTimeout) {
		val := *readyTimeout
		overrides.ReadyTimeoutS = &val
	}

	if err := server.StartApp(server.AppConfig{
		Addr:             *addr,
		ConfigPath:       *configPath,
		EngineConfigPath: *engineConfigPath,
		Overrides:        overrides,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "fireside:", err)
		os.Exit(1)
	}
}
