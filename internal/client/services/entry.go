package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/echovault/internal/client/audio"
	"github.com/dmitrijs2005/echovault/internal/client/client"
	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

// EmptyEntryMessage is shown when a draft has neither text nor audio.
const EmptyEntryMessage = "Please write something or record audio."

// EntryRepository is the only component that talks to the record service.
// It never touches view state.
type EntryRepository interface {
	// FetchAll returns the owner's entries newest first. No entries is an
	// empty slice, not an error.
	FetchAll(ctx context.Context, ownerID string) ([]models.Entry, error)
	// Create validates and stores a draft for ownerID.
	Create(ctx context.Context, ownerID string, draft models.Draft) (*models.Entry, error)
	Delete(ctx context.Context, id string) error
}

type entryRepository struct {
	records client.Records
	audio   audio.Store
	log     logging.Logger
	now     func() time.Time
}

type Option func(*entryRepository)

// WithClock replaces time.Now for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *entryRepository) { r.now = now }
}

// NewEntryRepository builds an EntryRepository. A nil audio store rejects
// drafts carrying a recording.
func NewEntryRepository(records client.Records, store audio.Store, log logging.Logger, opts ...Option) EntryRepository {
	r := &entryRepository{records: records, audio: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *entryRepository) FetchAll(ctx context.Context, ownerID string) ([]models.Entry, error) {
	rows, err := r.records.Query(ctx, ownerID)
	if err != nil {
		return nil, &common.RemoteError{Op: "fetch entries", Err: err}
	}

	result := make([]models.Entry, 0, len(rows))
	for _, e := range rows {
		if e.OwnerID != ownerID {
			r.log.Warn(ctx, "dropping entry of another owner", "entry_id", e.ID, "owner_id", e.OwnerID)
			continue
		}
		result = append(result, e)
	}
	models.SortNewestFirst(result)
	return result, nil
}

func (r *entryRepository) Create(ctx context.Context, ownerID string, draft models.Draft) (*models.Entry, error) {
	content := strings.TrimSpace(draft.Content)
	if content == "" && draft.Audio == nil {
		return nil, &common.ValidationError{Field: "content", Msg: EmptyEntryMessage}
	}

	e := &models.Entry{
		OwnerID: ownerID,
		Content: content,
		Tags:    models.NormalizeTags(draft.Tags),
	}

	if draft.Audio != nil {
		if r.audio == nil {
			return nil, &common.ValidationError{Field: "audio", Msg: "Audio recordings are not available."}
		}
		key, err := r.audio.Put(ctx, ownerID, draft.Audio)
		if err != nil {
			return nil, &common.RemoteError{Op: "upload audio", Err: err}
		}
		e.AudioKey = key
	}

	e.CreatedAt = r.now()

	saved, err := r.records.Insert(ctx, e)
	if err != nil {
		return nil, &common.RemoteError{Op: "create entry", Err: err}
	}
	r.log.Info(ctx, "entry created", "entry_id", saved.ID, "tags", len(saved.Tags), "audio", saved.HasAudio())
	return saved, nil
}

func (r *entryRepository) Delete(ctx context.Context, id string) error {
	if err := r.records.DeleteByID(ctx, id); err != nil {
		return &common.RemoteError{Op: "delete entry", Err: err}
	}
	r.log.Info(ctx, "entry deleted", "entry_id", id)
	return nil
}
