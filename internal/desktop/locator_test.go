package desktop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f-is-h/mcp-easy-copy/internal/platform"
)

// writeConfig creates path (and parents) with content.
func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultPaths_Order(t *testing.T) {
	home := "/home/tester"
	got := DefaultPaths(home).Candidates()
	require.Len(t, got, 3)

	assert.Equal(t, filepath.Join(home, "Library/Application Support/Claude/claude_desktop_config.json"), got[0].Path)
	assert.Equal(t, platform.PlatformMacOS, got[0].Platform)
	assert.Equal(t, filepath.Join(home, ".config/Claude/claude_desktop_config.json"), got[1].Path)
	assert.Equal(t, platform.PlatformLinux, got[1].Platform)
	assert.Equal(t, filepath.Join(home, "AppData/Roaming/Claude/claude_desktop_config.json"), got[2].Path)
	assert.Equal(t, platform.PlatformWindows, got[2].Platform)
}

func TestLocate_NoneExist(t *testing.T) {
	paths := DefaultPaths(t.TempDir())

	path, ok := paths.Locate()
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Equal(t, []string{}, paths.ListServices())
}

func TestLocate_FirstMatchWins(t *testing.T) {
	home := t.TempDir()
	cs := DefaultCandidates(home)
	writeConfig(t, cs[1].Path, `{}`)
	writeConfig(t, cs[2].Path, `{}`)

	path, ok := DefaultPaths(home).Locate()
	require.True(t, ok)
	assert.Equal(t, cs[1].Path, path)

	writeConfig(t, cs[0].Path, `{}`)
	path, ok = DefaultPaths(home).Locate()
	require.True(t, ok)
	assert.Equal(t, cs[0].Path, path)
}

func TestLocate_OnlyLast(t *testing.T) {
	home := t.TempDir()
	cs := DefaultCandidates(home)
	writeConfig(t, cs[2].Path, `{}`)

	path, ok := DefaultPaths(home).Locate()
	require.True(t, ok)
	assert.Equal(t, cs[2].Path, path)
}

func TestNewPaths_DropsEmptyAndDuplicates(t *testing.T) {
	p := NewPaths(
		Candidate{Path: "/a/b.json"},
		Candidate{Path: ""},
		Candidate{Path: "/a/./b.json"},
		Candidate{Path: "/c.json"},
	)
	assert.Equal(t, []string{"/a/b.json", "/c.json"}, p.Files())
	assert.Equal(t, 2, p.Len())
}

func TestPaths_CandidatesIsCopy(t *testing.T) {
	p := DefaultPaths("/home/x")
	cs := p.Candidates()
	cs[0].Path = "/mutated"
	assert.NotEqual(t, "/mutated", p.Candidates()[0].Path)
}

func TestResolve_Order(t *testing.T) {
	home := t.TempDir()
	t.Setenv(OverrideEnv, "/override/claude.json")

	got := Resolve(home, []string{"/extra/one.json", "/override/claude.json"}).Files()
	want := append([]string{"/override/claude.json", "/extra/one.json"}, DefaultPaths(home).Files()...)
	assert.Equal(t, want, got)
}

func TestResolve_NothingConfigured(t *testing.T) {
	home := t.TempDir()
	t.Setenv(OverrideEnv, "")

	assert.Equal(t, DefaultPaths(home).Files(), Resolve(home, nil).Files())
}

func TestResolve_NoHome(t *testing.T) {
	t.Setenv(OverrideEnv, "")
	assert.Equal(t, 0, Resolve("", nil).Len())
}
