package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/repositories/entries"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecords struct {
	mu sync.Mutex

	QueryRet  []models.Entry
	QueryErr  error
	InsertErr error
	DeleteErr error

	Inserted []models.Entry
	Deleted  []string
	calls    int
}

func (f *fakeRecords) Query(ctx context.Context, ownerID string) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]models.Entry(nil), f.QueryRet...), f.QueryErr
}

func (f *fakeRecords) Insert(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}
	saved := *e
	saved.ID = "srv-1"
	f.Inserted = append(f.Inserted, saved)
	return &saved, nil
}

func (f *fakeRecords) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

type fakeAudio struct {
	key string
	err error
	got []byte
}

func (f *fakeAudio) Put(ctx context.Context, ownerID string, data []byte) (string, error) {
	f.got = data
	return f.key, f.err
}

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestFetchAll_SortsAndDropsForeign(t *testing.T) {
	rec := &fakeRecords{QueryRet: []models.Entry{
		{ID: "a", OwnerID: "u1", CreatedAt: t0},
		{ID: "x", OwnerID: "u2", CreatedAt: t0.Add(time.Hour)},
		{ID: "b", OwnerID: "u1", CreatedAt: t0.Add(2 * time.Hour)},
	}}
	repo := NewEntryRepository(rec, nil, logging.Nop())

	list, err := repo.FetchAll(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestFetchAll_EmptyIsNotError(t *testing.T) {
	repo := NewEntryRepository(&fakeRecords{}, nil, logging.Nop())

	list, err := repo.FetchAll(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFetchAll_RemoteError(t *testing.T) {
	boom := errors.New("timeout")
	repo := NewEntryRepository(&fakeRecords{QueryErr: boom}, nil, logging.Nop())

	_, err := repo.FetchAll(context.Background(), "u1")
	require.True(t, common.IsRemote(err))
	require.ErrorIs(t, err, boom)
}

func TestCreate_EmptyDraftIsValidationErrorWithoutRemoteCall(t *testing.T) {
	rec := &fakeRecords{}
	repo := NewEntryRepository(rec, &fakeAudio{}, logging.Nop())

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := repo.Create(context.Background(), "u1", models.Draft{Content: content, Tags: []string{"x"}})
		require.True(t, common.IsValidation(err))
	}
	assert.Equal(t, 0, rec.calls)
}

func TestCreate_TrimsNormalizesAndStamps(t *testing.T) {
	rec := &fakeRecords{}
	repo := NewEntryRepository(rec, nil, logging.Nop(), WithClock(func() time.Time { return t0 }))

	saved, err := repo.Create(context.Background(), "u1", models.Draft{
		Content: "  walked by the sea  ",
		Tags:    []string{" Beach", "beach", "", "Calm"},
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", saved.ID)
	assert.Equal(t, "u1", saved.OwnerID)
	assert.Equal(t, "walked by the sea", saved.Content)
	assert.Equal(t, []string{"beach", "calm"}, saved.Tags)
	assert.True(t, saved.CreatedAt.Equal(t0))
	assert.False(t, saved.HasAudio())
}

func TestCreate_AudioOnly(t *testing.T) {
	rec := &fakeRecords{}
	store := &fakeAudio{key: "users/u1/clip.webm"}
	repo := NewEntryRepository(rec, store, logging.Nop())

	saved, err := repo.Create(context.Background(), "u1", models.Draft{Audio: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "users/u1/clip.webm", saved.AudioKey)
	assert.Equal(t, []byte{1, 2}, store.got)
}

func TestCreate_AudioUploadFails(t *testing.T) {
	rec := &fakeRecords{}
	boom := errors.New("bucket missing")
	repo := NewEntryRepository(rec, &fakeAudio{err: boom}, logging.Nop())

	_, err := repo.Create(context.Background(), "u1", models.Draft{Content: "x", Audio: []byte{1}})
	require.True(t, common.IsRemote(err))
	require.ErrorIs(t, err, boom)
	assert.Empty(t, rec.Inserted)
}

func TestCreate_AudioWithoutStore(t *testing.T) {
	repo := NewEntryRepository(&fakeRecords{}, nil, logging.Nop())

	_, err := repo.Create(context.Background(), "u1", models.Draft{Audio: []byte{1}})
	require.True(t, common.IsValidation(err))
}

func TestCreate_InsertFails(t *testing.T) {
	boom := errors.New("unique violation")
	repo := NewEntryRepository(&fakeRecords{InsertErr: boom}, nil, logging.Nop())

	_, err := repo.Create(context.Background(), "u1", models.Draft{Content: "x"})
	require.True(t, common.IsRemote(err))
	require.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	rec := &fakeRecords{}
	repo := NewEntryRepository(rec, nil, logging.Nop())

	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.Equal(t, []string{"e1"}, rec.Deleted)

	rec.DeleteErr = common.ErrNotFound
	err := repo.Delete(context.Background(), "e2")
	require.True(t, common.IsRemote(err))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEntryRepository_OverSQLite(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`
CREATE TABLE entries (
  id         TEXT PRIMARY KEY,
  owner_id   TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  content    TEXT NOT NULL DEFAULT '',
  tags       TEXT NOT NULL DEFAULT '[]',
  audio_key  TEXT NOT NULL DEFAULT ''
);`)
	require.NoError(t, err)

	now := t0
	repo := NewEntryRepository(entries.NewSQLiteRepository(db), nil, logging.Nop(),
		WithClock(func() time.Time { now = now.Add(time.Minute); return now }))
	ctx := context.Background()

	first, err := repo.Create(ctx, "u1", models.Draft{Content: "first", Tags: []string{"A"}})
	require.NoError(t, err)
	second, err := repo.Create(ctx, "u1", models.Draft{Content: "second"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "u2", models.Draft{Content: "other"})
	require.NoError(t, err)

	list, err := repo.FetchAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, []string{"a"}, list[1].Tags)

	require.NoError(t, repo.Delete(ctx, first.ID))
	list, err = repo.FetchAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}
