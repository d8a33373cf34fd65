package client

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/echovault/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// RunMigrations applies the migrations found under dir of fsys. It is
// idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS, dir string) error {
	provider, err := goose.NewProvider(dialect, db, mustSub(fsys, dir))
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// InitDatabase opens (creating if needed) the local SQLite database at dsn
// and migrates it. The returned *sql.DB holds preferences, the persisted
// session and, in local mode, the entries.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, goose.DialectSQLite3, migrations.SQLite, "sqlite"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRecordsDB opens the Postgres record service database for a
// postgres:// or postgresql:// DSN and migrates it.
func OpenRecordsDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if !IsPostgresDSN(dsn) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := RunMigrations(ctx, db, goose.DialectPostgres, migrations.Postgres, "postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// IsPostgresDSN reports whether dsn selects the Postgres record service.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
