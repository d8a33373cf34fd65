// Package viewmodel holds the entry list shown to the signed-in user and
// keeps it consistent with session changes, remote fetches and confirmed
// deletes.
//
// # Fetch protocol
//
// Every transition to a present session starts a fetch tagged with a
// sequence number and the owner id. A completion is applied only if its
// sequence number is still the latest and its owner is still signed in.
// Fetches are never cancelled; superseded results are dropped on arrival.
//
// # Deletes
//
// Deletes are confirm-then-remove: the entry leaves the list only after the
// record service accepted the delete. A failed delete leaves the list as it
// was.
package viewmodel

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/notify"
	"github.com/dmitrijs2005/echovault/internal/client/services"
	"github.com/dmitrijs2005/echovault/internal/client/session"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

type Status int

const (
	StatusLoggedOut Status = iota
	StatusLoading
	StatusEmpty
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusLoggedOut:
		return "logged-out"
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SessionSource is the part of session.Tracker the view model uses.
type SessionSource interface {
	Current() *models.Session
	Subscribe(fn func(session.Transition)) func()
}

// Notifier receives user-facing notices. notify.Center implements it.
type Notifier interface {
	Info(title, message string) notify.Notice
	Error(title string, err error) (notify.Notice, bool)
}

// Snapshot is a consistent copy of the view state.
type Snapshot struct {
	Session    *models.Session
	Entries    []models.Entry
	Visible    []models.Entry
	SearchTerm string
	ViewMode   models.ViewMode
	Status     Status
	// FetchErr is the error of the last applied fetch, nil after a success.
	FetchErr error
}

type EntryViewModel struct {
	repo    services.EntryRepository
	notices Notifier
	log     logging.Logger

	// ctx is the context New was given; it bounds every background fetch
	// and lives as long as the view model.
	ctx context.Context

	mu         sync.Mutex
	session    *models.Session
	entries    []models.Entry
	searchTerm string
	viewMode   models.ViewMode
	fetchSeq   uint64
	fetching   bool
	fetchErr   error
	deleting   map[string]struct{}

	// pending counts fetches started and not yet finished; idle is
	// broadcast on mu when it drops to zero.
	pending int
	idle    *sync.Cond

	unsub func()
}

// New wires the view model to sessions and starts a fetch if a session is
// already present. ctx bounds every background fetch.
func New(ctx context.Context, sessions SessionSource, repo services.EntryRepository, notices Notifier, log logging.Logger) *EntryViewModel {
	vm := &EntryViewModel{
		repo:     repo,
		notices:  notices,
		log:      log,
		ctx:      ctx,
		viewMode: models.ViewTimeline,
		deleting: make(map[string]struct{}),
	}
	vm.idle = sync.NewCond(&vm.mu)

	vm.mu.Lock()
	vm.unsub = sessions.Subscribe(vm.onTransition)
	if cur := sessions.Current(); cur != nil {
		vm.session = cur
		vm.startFetchLocked()
	}
	vm.mu.Unlock()
	return vm
}

func (vm *EntryViewModel) onTransition(tr session.Transition) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if tr.Next == nil {
		vm.session = nil
		vm.entries = nil
		vm.fetchErr = nil
		vm.fetching = false
		vm.fetchSeq++
		vm.log.Debug(vm.ctx, "session closed, entries cleared", "seq", tr.Seq)
		return
	}

	if vm.session == nil || vm.session.UserID != tr.Next.UserID {
		vm.entries = nil
		vm.fetchErr = nil
	}
	vm.session = tr.Next
	vm.startFetchLocked()
}

func (vm *EntryViewModel) startFetchLocked() {
	vm.fetchSeq++
	seq := vm.fetchSeq
	owner := vm.session.UserID
	vm.fetching = true

	vm.pending++
	go vm.fetch(seq, owner)
}

func (vm *EntryViewModel) fetch(seq uint64, owner string) {
	defer vm.finishFetch()

	entries, err := vm.repo.FetchAll(vm.ctx, owner)

	vm.mu.Lock()
	if seq != vm.fetchSeq || vm.session == nil || vm.session.UserID != owner {
		vm.mu.Unlock()
		vm.log.Debug(vm.ctx, "discarding stale fetch", "seq", seq, "owner_id", owner)
		return
	}
	vm.fetching = false
	if err != nil {
		vm.fetchErr = err
		vm.mu.Unlock()
		vm.log.Error(vm.ctx, "fetch entries failed", "owner_id", owner, "error", err)
		vm.notices.Error(notify.TitleFor("fetch", err), err)
		return
	}
	vm.entries = entries
	vm.fetchErr = nil
	vm.mu.Unlock()
	vm.log.Debug(vm.ctx, "entries loaded", "owner_id", owner, "count", len(entries))
}

// Refresh refetches for the current session.
func (vm *EntryViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.session == nil {
		return &common.AuthError{Op: "refresh", Err: common.ErrNotLoggedIn}
	}
	vm.startFetchLocked()
	return nil
}

func (vm *EntryViewModel) finishFetch() {
	vm.mu.Lock()
	vm.pending--
	if vm.pending == 0 {
		vm.idle.Broadcast()
	}
	vm.mu.Unlock()
}

// Wait blocks until no fetch is in flight. Fetches started while waiting
// are waited for too.
func (vm *EntryViewModel) Wait() {
	vm.mu.Lock()
	for vm.pending > 0 {
		vm.idle.Wait()
	}
	vm.mu.Unlock()
}

// Close stops following session changes.
func (vm *EntryViewModel) Close() {
	vm.mu.Lock()
	unsub := vm.unsub
	vm.unsub = nil
	vm.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (vm *EntryViewModel) statusLocked() Status {
	switch {
	case vm.session == nil:
		return StatusLoggedOut
	case vm.fetching:
		return StatusLoading
	case len(vm.entries) == 0:
		return StatusEmpty
	default:
		return StatusLoaded
	}
}

func (vm *EntryViewModel) Status() Status {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.statusLocked()
}

// Visible returns the entries matching the search term, newest first.
func (vm *EntryViewModel) Visible() []models.Entry {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return slices.Clone(Filter(vm.entries, vm.searchTerm))
}

func (vm *EntryViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Snapshot{
		Session:    vm.session,
		Entries:    slices.Clone(vm.entries),
		Visible:    slices.Clone(Filter(vm.entries, vm.searchTerm)),
		SearchTerm: vm.searchTerm,
		ViewMode:   vm.viewMode,
		Status:     vm.statusLocked(),
		FetchErr:   vm.fetchErr,
	}
}

func (vm *EntryViewModel) SetSearchTerm(term string) {
	vm.mu.Lock()
	vm.searchTerm = term
	vm.mu.Unlock()
}

func (vm *EntryViewModel) SetViewMode(m models.ViewMode) {
	vm.mu.Lock()
	vm.viewMode = m
	vm.mu.Unlock()
}

// Delete removes id after the record service confirmed it. An id that is not
// in the list is common.ErrNotFound; a second delete of an id still in
// flight is common.ErrDeleteInProgress. Neither reaches the record service.
func (vm *EntryViewModel) Delete(ctx context.Context, id string) error {
	vm.mu.Lock()
	if !slices.ContainsFunc(vm.entries, func(e models.Entry) bool { return e.ID == id }) {
		vm.mu.Unlock()
		return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if _, busy := vm.deleting[id]; busy {
		vm.mu.Unlock()
		return fmt.Errorf("entry %s: %w", id, common.ErrDeleteInProgress)
	}
	vm.deleting[id] = struct{}{}
	vm.mu.Unlock()

	err := vm.repo.Delete(ctx, id)

	vm.mu.Lock()
	delete(vm.deleting, id)
	if err != nil {
		vm.mu.Unlock()
		vm.log.Error(ctx, "delete entry failed", "entry_id", id, "error", err)
		vm.notices.Error(notify.TitleDeleteFailed, err)
		return err
	}
	vm.entries = slices.DeleteFunc(slices.Clone(vm.entries), func(e models.Entry) bool { return e.ID == id })
	vm.mu.Unlock()

	vm.notices.Info(notify.TitleDeleted, "The memory has been removed from your vault.")
	return nil
}

// Add creates an entry from draft for the current user and shows it at its
// place in the list without a refetch.
func (vm *EntryViewModel) Add(ctx context.Context, draft models.Draft) (*models.Entry, error) {
	vm.mu.Lock()
	cur := vm.session
	vm.mu.Unlock()

	if cur == nil {
		err := &common.AuthError{Op: "create", Err: common.ErrNotLoggedIn}
		vm.notices.Error(notify.TitleNotLoggedIn, err)
		return nil, err
	}

	saved, err := vm.repo.Create(ctx, cur.UserID, draft)
	if err != nil {
		vm.notices.Error(notify.TitleFor("create", err), err)
		return nil, err
	}

	vm.mu.Lock()
	if vm.session != nil && vm.session.UserID == saved.OwnerID {
		vm.entries = models.InsertNewestFirst(slices.Clone(vm.entries), *saved)
	}
	vm.mu.Unlock()

	vm.notices.Info(notify.TitleSaved, "Your memory has been saved.")
	return saved, nil
}
