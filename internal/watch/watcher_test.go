package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoExistingDirectory(t *testing.T) {
	root := t.TempDir()
	_, err := New([]string{filepath.Join(root, "missing", "config.json")}, func(context.Context) {})
	require.Error(t, err)
}

func TestNew_WatchesOnlyExistingDirs(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "a")
	require.NoError(t, os.MkdirAll(existing, 0755))

	w, err := New([]string{
		filepath.Join(existing, "config.json"),
		filepath.Join(root, "b", "config.json"),
		filepath.Join(existing, "other.json"),
	}, func(context.Context) {})
	require.NoError(t, err)
	defer w.watcher.Close()

	assert.Equal(t, []string{existing}, w.Dirs())
}

func TestRun_NotifiesOnCandidateWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "claude_desktop_config.json")

	var calls atomic.Int32
	w, err := New([]string{target}, func(context.Context) { calls.Add(1) },
		WithDebounce(20*time.Millisecond),
		WithRateLimit(time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(target, []byte(`{"mcpServers": {}}`), 0644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_DebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "claude_desktop_config.json")

	var calls atomic.Int32
	w, err := New([]string{target}, func(context.Context) { calls.Add(1) },
		WithDebounce(150*time.Millisecond),
		WithRateLimit(time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := range 5 {
		require.NoError(t, os.WriteFile(target, []byte{'{', '}', byte('0' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFire_RateLimited(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New([]string{filepath.Join(dir, "c.json")}, func(context.Context) { calls.Add(1) },
		WithRateLimit(time.Hour),
	)
	require.NoError(t, err)
	defer w.watcher.Close()

	ctx := context.Background()
	w.fire(ctx)
	w.fire(ctx)
	w.fire(ctx)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFire_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New([]string{filepath.Join(dir, "c.json")}, func(context.Context) { calls.Add(1) })
	require.NoError(t, err)
	defer w.watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.fire(ctx)
	assert.Equal(t, int32(0), calls.Load())
}
