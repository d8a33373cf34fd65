// Package audio stores recordings attached to entries. The entry keeps only
// the returned key.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/echovault/internal/filex"
)

// Store uploads a recording and returns the key it can be found under.
type Store interface {
	Put(ctx context.Context, ownerID string, data []byte) (string, error)
}

// NewKey builds a unique object key grouped by owner and day.
func NewKey(ownerID string, now time.Time) string {
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%v.webm", ownerID, now.Year(), now.Month(), now.Day(), uuid.New())
}

// DirStore keeps recordings as files below a local directory.
type DirStore struct {
	root string
	now  func() time.Time
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root, now: time.Now}
}

func (s *DirStore) Put(ctx context.Context, ownerID string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := NewKey(ownerID, s.now())
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := filex.EnsureParentDir(path); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	return key, nil
}

// Path returns the file location of key.
func (s *DirStore) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
