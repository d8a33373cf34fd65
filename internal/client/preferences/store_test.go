package preferences

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/echovault/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return NewStore(metadata.NewSQLiteRepository(db))
}

type brokenRepo struct{ err error }

func (b brokenRepo) Get(context.Context, string) ([]byte, error) { return nil, b.err }
func (b brokenRepo) Set(context.Context, string, []byte) error   { return b.err }
func (b brokenRepo) Delete(context.Context, string) error        { return b.err }

func TestGet_Missing(t *testing.T) {
	s := newStore(t)

	v, ok, err := s.Get(context.Background(), "echovault-theme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetThenGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "echovault-theme", "light"))
	v, ok, err := s.Get(ctx, "echovault-theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestBool(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	b, err := s.GetBool(ctx, "echovault-night-mode", false)
	require.NoError(t, err)
	assert.False(t, b)

	require.NoError(t, s.SetBool(ctx, "echovault-night-mode", true))
	v, _, err := s.Get(ctx, "echovault-night-mode")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	b, err = s.GetBool(ctx, "echovault-night-mode", false)
	require.NoError(t, err)
	assert.True(t, b)

	require.NoError(t, s.Set(ctx, "echovault-night-mode", "garbage"))
	b, err = s.GetBool(ctx, "echovault-night-mode", true)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("locked")
	s := NewStore(brokenRepo{err: boom})
	ctx := context.Background()

	_, _, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, s.Set(ctx, "k", "v"), boom)

	b, err := s.GetBool(ctx, "k", true)
	require.ErrorIs(t, err, boom)
	assert.True(t, b)
}
