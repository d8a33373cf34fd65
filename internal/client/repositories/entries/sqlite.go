package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Query lists the owner's entries newest first. created_at is stored as
// Unix nanoseconds.
func (r *SQLiteRepository) Query(ctx context.Context, ownerID string) ([]models.Entry, error) {
	query := `select id, owner_id, created_at, content, tags, audio_key
		from entries where owner_id=? order by created_at desc`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []models.Entry{}
	for rows.Next() {
		var (
			item    models.Entry
			created int64
			tags    []byte
		)
		if err := rows.Scan(&item.ID, &item.OwnerID, &created, &item.Content, &tags, &item.AudioKey); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(0, created).UTC()
		if item.Tags, err = decodeTags(tags); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert stores a new entry. It never overwrites an existing id.
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	saved := *e
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = r.now()
	}
	saved.CreatedAt = saved.CreatedAt.UTC()
	if saved.Tags == nil {
		saved.Tags = []string{}
	}

	tags, err := encodeTags(saved.Tags)
	if err != nil {
		return nil, err
	}

	query := `insert into entries (id, owner_id, created_at, content, tags, audio_key)
		values (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		saved.ID, saved.OwnerID, saved.CreatedAt.UnixNano(), saved.Content, tags, saved.AudioKey)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	return &saved, nil
}

// DeleteByID removes an entry. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from entries where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
