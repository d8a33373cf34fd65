package theme

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/echovault/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// SchemeSource reports the operating system's color scheme preference.
type SchemeSource interface {
	PrefersDark() bool
	// Watch calls fn with the new preference every time it changes, until
	// ctx is done.
	Watch(ctx context.Context, fn func(prefersDark bool)) error
}

// StaticScheme is a fixed preference that never changes.
type StaticScheme bool

func (s StaticScheme) PrefersDark() bool { return bool(s) }

func (s StaticScheme) Watch(ctx context.Context, _ func(bool)) error {
	<-ctx.Done()
	return nil
}

// FileScheme reads the preference from a file holding one of "dark",
// "prefer-dark", "light" or "default", the values desktop settings daemons
// write for color-scheme. A missing or unreadable file means light.
type FileScheme struct {
	path string
	log  logging.Logger

	mu   sync.Mutex
	dark bool
}

func NewFileScheme(path string, log logging.Logger) *FileScheme {
	s := &FileScheme{path: filepath.Clean(path), log: log}
	s.dark = s.read()
	return s
}

func (f *FileScheme) PrefersDark() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dark
}

// ParseScheme maps a color-scheme value to a dark preference.
func ParseScheme(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark", "prefer-dark":
		return true
	default:
		return false
	}
}

func (f *FileScheme) read() bool {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.log.Warn(context.Background(), "color scheme file unreadable", "path", f.path, "error", err)
		}
		return false
	}
	return ParseScheme(string(b))
}

// Watch observes the directory holding the file so that atomic replaces are
// seen as well as in-place writes. A directory that cannot be watched keeps
// the preference read at construction until ctx is done.
func (f *FileScheme) Watch(ctx context.Context, fn func(bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		f.log.Warn(ctx, "color scheme file not watched", "path", f.path, "error", err)
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			f.update(fn)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.Error(ctx, "fsnotify error", "error", err)
		}
	}
}

func (f *FileScheme) update(fn func(bool)) {
	dark := f.read()

	f.mu.Lock()
	changed := dark != f.dark
	f.dark = dark
	f.mu.Unlock()

	if changed {
		fn(dark)
	}
}
