package theme

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/echovault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheme(t *testing.T) {
	assert.True(t, ParseScheme("dark"))
	assert.True(t, ParseScheme("prefer-dark\n"))
	assert.True(t, ParseScheme("  DARK "))
	assert.False(t, ParseScheme("light"))
	assert.False(t, ParseScheme("default"))
	assert.False(t, ParseScheme(""))
}

func TestStaticScheme(t *testing.T) {
	assert.True(t, StaticScheme(true).PrefersDark())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, StaticScheme(false).Watch(ctx, func(bool) { t.Fatal("unexpected change") }))
}

func TestFileScheme_MissingFileIsLight(t *testing.T) {
	s := NewFileScheme(filepath.Join(t.TempDir(), "color-scheme"), logging.Nop())
	assert.False(t, s.PrefersDark())
}

func TestFileScheme_WatchSeesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color-scheme")
	require.NoError(t, os.WriteFile(path, []byte("light"), 0o600))

	s := NewFileScheme(path, logging.Nop())
	require.False(t, s.PrefersDark())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var last atomic.Int32
	last.Store(-1)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func(dark bool) {
			if dark {
				last.Store(1)
			} else {
				last.Store(0)
			}
		})
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("prefer-dark"), 0o600)
		return last.Load() == 1
	}, 3*time.Second, 50*time.Millisecond)
	assert.True(t, s.PrefersDark())

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("default"), 0o600)
		return last.Load() == 0
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestResolver_RunFollowsScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color-scheme")
	require.NoError(t, os.WriteFile(path, []byte("light"), 0o600))

	store := newMemStore("echovault-theme", "system")
	r, err := NewResolver(context.Background(), store, NewFileScheme(path, logging.Nop()), "dark", logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("dark"), 0o600)
		return r.State().Applied == "dark"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestFileScheme_UnwatchableDirKeepsInitialValue(t *testing.T) {
	s := NewFileScheme(filepath.Join(t.TempDir(), "missing-dir", "color-scheme"), logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func(bool) { t.Error("unexpected change") })
	}()

	select {
	case err := <-done:
		t.Fatalf("watch returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.False(t, s.PrefersDark())
}
