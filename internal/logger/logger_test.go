package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

func resetLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		_ = Close()
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	resetLogger(t)

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := resetLogger(t)
	SetVerbose(true)

	Debug("test message %s", "arg")
	Section("Harvest")

	assert.Contains(t, buf.String(), "test message arg")
	assert.Contains(t, buf.String(), "=== Harvest ===")
	assert.Contains(t, buf.String(), "DBG")
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	buf := resetLogger(t)

	Debug("hidden debug")
	Info("hidden info")

	assert.Empty(t, buf.String())
}

func TestWarn_AlwaysShown(t *testing.T) {
	buf := resetLogger(t)

	Warn("quota low: %d", 3)

	assert.Contains(t, buf.String(), "quota low: 3")
	assert.Contains(t, buf.String(), "WRN")
}

func TestSetFile_ReceivesAllLevels(t *testing.T) {
	buf := resetLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "gitminer.log")

	require.NoError(t, SetFile(FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1}))
	Debug("to file only")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file only"`)
	assert.Contains(t, string(data), `"level":"debug"`)
	assert.Empty(t, buf.String())
}

func TestSink_Emit(t *testing.T) {
	buf := resetLogger(t)
	SetVerbose(true)

	NewSink(nil).Emit(domain.Event{
		Level:   domain.EventWarn,
		Message: "rate limited",
		Fields:  map[string]any{"wait": "12s", "resource": "search"},
	})

	out := buf.String()
	assert.Contains(t, out, "rate limited")
	assert.Contains(t, out, "resource=search")
	assert.Contains(t, out, "wait=12s")
}

func TestSink_LevelFilter(t *testing.T) {
	buf := resetLogger(t)

	sink := NewSink(nil)
	sink.Emit(domain.Event{Level: domain.EventInfo, Message: "quiet"})
	sink.Emit(domain.Event{Level: domain.EventError, Message: "loud"})

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
