// Package preferences persists small user settings (theme, night mode) as
// strings in the local metadata table.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/echovault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/echovault/internal/common"
)

// Store reads and writes string preferences by key.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the stored value and whether it was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.repo.Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("preference %q: %w", key, err)
	}
	return string(v), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("preference %q: %w", key, err)
	}
	return nil
}

// GetBool reads a "true"/"false" value. Missing or malformed values yield
// def.
func (s *Store) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	b, perr := strconv.ParseBool(v)
	if perr != nil {
		return def, nil
	}
	return b, nil
}

func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}
