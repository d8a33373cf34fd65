// Package entries persists memory entries for the record service.
//
// # Implementations
//
//   - SQLiteRepository keeps entries in the local SQLite database next to
//     preferences. It is the default when no records DSN is configured.
//   - PostgresRepository talks to a shared Postgres database and builds its
//     statements with squirrel.
//
// Both satisfy Repository and therefore client.Records.
//
// # Data Model
//
// Rows carry id, owner_id, created_at, content, tags and audio_key. Tags are
// stored as a JSON array (TEXT in SQLite, JSONB in Postgres). Query always
// filters by owner and returns newest first.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	saved, _ := repo.Insert(ctx, &models.Entry{OwnerID: uid, Content: "hello"})
//	list, _ := repo.Query(ctx, uid)
//	_ = repo.DeleteByID(ctx, saved.ID)
package entries
