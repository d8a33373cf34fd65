package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/dbx"
	"github.com/google/uuid"
)

var entryColumns = []string{"id", "owner_id", "created_at", "content", "tags", "audio_key"}

// PostgresRepository implements Repository against the shared Postgres
// record service.
type PostgresRepository struct {
	db  dbx.DBTX
	sb  sq.StatementBuilderType
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
}

func (r *PostgresRepository) Query(ctx context.Context, ownerID string) ([]models.Entry, error) {
	query, args, err := r.sb.
		Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []models.Entry{}
	for rows.Next() {
		var (
			item models.Entry
			tags []byte
		)
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.CreatedAt, &item.Content, &tags, &item.AudioKey); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
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

func (r *PostgresRepository) Insert(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	saved := *e
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = r.now()
	}
	if saved.Tags == nil {
		saved.Tags = []string{}
	}

	tags, err := encodeTags(saved.Tags)
	if err != nil {
		return nil, err
	}

	query, args, err := r.sb.
		Insert("entries").
		Columns(entryColumns...).
		Values(saved.ID, saved.OwnerID, saved.CreatedAt.UTC(), saved.Content, tags, saved.AudioKey).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&saved.ID, &saved.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query, args, err := r.sb.
		Delete("entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
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
