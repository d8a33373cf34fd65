package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func getMeta(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	require.NoError(t, err)
	return v
}

func TestRegister_ThenVerify(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "  Ada@Example.com ", []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", acc.Email)
	assert.NotEmpty(t, acc.UserID)

	assert.Equal(t, acc.UserID, string(getMeta(t, db, "account:ada@example.com:id")))
	assert.Len(t, getMeta(t, db, "account:ada@example.com:salt"), 32)

	got, err := svc.Verify(ctx, "ada@example.com", []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, acc, got)
}

func TestVerify_WrongPassword(t *testing.T) {
	svc := NewAuthService(setupDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", []byte("s3cret"))
	require.NoError(t, err)

	_, err = svc.Verify(ctx, "ada@example.com", []byte("nope"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestVerify_UnknownEmail(t *testing.T) {
	svc := NewAuthService(setupDB(t))

	_, err := svc.Verify(context.Background(), "ghost@example.com", []byte("x"))
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegister_Duplicate(t *testing.T) {
	svc := NewAuthService(setupDB(t))
	ctx := context.Background()

	first, err := svc.Register(ctx, "ada@example.com", []byte("a"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ADA@example.com", []byte("b"))
	require.ErrorIs(t, err, common.ErrAccountExists)

	got, err := svc.Verify(ctx, "ada@example.com", []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, first.UserID, got.UserID)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(setupDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", []byte("a"))
	require.True(t, common.IsValidation(err))

	_, err = svc.Register(ctx, "ada@example.com", nil)
	require.True(t, common.IsValidation(err))
}
