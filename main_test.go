package main

import (
	"testing"

	"github.com/atomicstack/watch-remote/internal/app"
	"github.com/atomicstack/watch-remote/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	require.Len(t, info.Checks, 3)
	for i, name := range []string{"stdin", "stdout", "stderr"} {
		assert.Equal(t, name, info.Checks[i].Name, "check %d", i)
	}
}

func TestApplyTTYForcesHeadlessWithoutTerminal(t *testing.T) {
	cfg := config.Config{Flags: map[string]string{"headless": "false"}}
	applyTTY(&cfg, ttyDetails{Checks: []ttyCheck{{Name: "stdin"}, {Name: "stdout"}}})
	assert.True(t, cfg.App.Headless, "headless when stdout is not a terminal")
	assert.Equal(t, "true", cfg.Flags["headless"])

	cfg = config.Config{Flags: map[string]string{}}
	applyTTY(&cfg, ttyDetails{
		Detected: &ttyDetected{Source: "stdout", Width: 100, Height: 40},
		Checks:   []ttyCheck{{Name: "stdout", IsTerminal: true, Width: 100, Height: 40}},
	})
	assert.False(t, cfg.App.Headless)
	assert.Equal(t, 100, cfg.App.Width)
	assert.Equal(t, 40, cfg.App.Height)
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Port:     4000,
			Headless: true,
			Verbose:  true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"port":     "4000",
			"headless": "true",
			"verbose":  "true",
		},
		Args: []string{"--port", "4000"},
	}

	payload := startupTracePayload(cfg, collectTTYDetails())

	flagsValue, ok := payload["flags"].(map[string]interface{})
	require.True(t, ok, "expected flags map in payload")
	assert.Equal(t, "4000", flagsValue["port"])
	assert.Equal(t, "true", flagsValue["headless"])
	assert.Equal(t, true, flagsValue["trace"])
	assert.Equal(t, "true", flagsValue["verbose"])
	assert.Equal(t, "trace.log", flagsValue["logFile"])

	assert.IsType(t, ttyDetails{}, payload["tty"])
	cfgValue, ok := payload["config"].(config.Config)
	require.True(t, ok, "expected config in payload")
	assert.Equal(t, cfg.App, cfgValue.App)
}
