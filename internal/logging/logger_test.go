package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestInit_StderrOnly(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Stderr: &buf})
	t.Cleanup(Shutdown)

	ForComponent(CompServer).Info("hello", slog.String("k", "v"))
	ForComponent(CompServer).Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "component=server")
	assert.Contains(t, out, "k=v")
	assert.NotContains(t, out, "hidden")
}

func TestInit_DebugWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	Init(Config{Debug: true, DefaultDir: dir, Stderr: &buf})

	ForComponent(CompDesktop).Debug("probe", slog.String("path", "/x"))
	Shutdown()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"probe"`)
	assert.Contains(t, string(data), `"component":"desktop"`)
	assert.Contains(t, buf.String(), "probe")
}

func TestInit_TextFileFormat(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, Format: "text", Stderr: &bytes.Buffer{}})
	ForComponent(CompWatch).Warn("changed")
	Shutdown()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=changed")
}

func TestLogger_BeforeInit(t *testing.T) {
	Shutdown()
	assert.NotPanics(t, func() {
		ForComponent(CompMain).Debug("noop")
	})
}
