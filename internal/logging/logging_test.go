package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "watch.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
		SetVerbose(false)
	})
	return path
}

func TestTraceWritesJSONOnlyWhenEnabled(t *testing.T) {
	path := useTempLog(t)

	Trace("ignored", nil)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected no log file while tracing disabled, got %v", err)

	SetTraceEnabled(true)
	Trace("command.queue", map[string]interface{}{"cmd": "click"})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "command.queue", entry.Event)
	assert.Equal(t, "click", entry.Payload["cmd"])
}

func TestErrorAndInfoLevels(t *testing.T) {
	path := useTempLog(t)

	Error(nil)
	Infof("hidden %d", 1)
	Error(errors.New("boom"))
	Warnf("duplicate id %q", "btn")
	SetVerbose(true)
	Infof("shown %d", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "[error] boom")
	assert.Contains(t, out, `[warn] duplicate id "btn"`)
	assert.Contains(t, out, "[info] shown 2")
	assert.NotContains(t, out, "hidden", "Infof is suppressed while not verbose")
}
