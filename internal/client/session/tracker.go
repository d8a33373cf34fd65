// Package session tracks the current identity session and turns provider
// pushes and the startup lookup into one ordered stream of transitions.
package session

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/echovault/internal/client/client"
	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

// Transition is one change of the current session. Prev and Next are nil
// when absent.
type Transition struct {
	Seq  uint64
	Prev *models.Session
	Next *models.Session
}

// IdentityChanged reports whether the transition switches to another user,
// including sign-in and sign-out.
func (t Transition) IdentityChanged() bool {
	return !models.SameIdentity(t.Prev, t.Next)
}

// Tracker is safe for concurrent use. Subscribers run synchronously, one
// transition at a time, in Seq order; they must not call SignIn or SignOut
// from inside the callback.
type Tracker struct {
	identity client.Identity
	log      logging.Logger

	deliverMu sync.Mutex

	mu      sync.Mutex
	current *models.Session
	seq     uint64
	pushes  uint64
	subs    map[int]func(Transition)
	nextID  int

	unsubscribe func()
	startOnce   sync.Once
	closeOnce   sync.Once
	ready       chan struct{}
}

func NewTracker(identity client.Identity, log logging.Logger) *Tracker {
	return &Tracker{
		identity: identity,
		log:      log,
		subs:     make(map[int]func(Transition)),
		ready:    make(chan struct{}),
	}
}

// Start subscribes to the provider feed and then looks up an existing
// session in the background. A push received while the lookup is in flight
// wins over the lookup result.
func (t *Tracker) Start(ctx context.Context) {
	t.startOnce.Do(func() {
		unsub := t.identity.OnSessionChange(t.onPush)
		t.mu.Lock()
		t.unsubscribe = unsub
		before := t.pushes
		t.mu.Unlock()

		go t.lookup(ctx, before)
	})
}

// Ready is closed once the startup lookup has been applied or discarded.
func (t *Tracker) Ready() <-chan struct{} {
	return t.ready
}

func (t *Tracker) lookup(ctx context.Context, before uint64) {
	defer close(t.ready)

	s, err := t.identity.CurrentSession(ctx)
	if err != nil {
		t.log.Warn(ctx, "session lookup failed", "error", err)
		s = nil
	}

	t.apply(func() bool {
		if t.pushes != before {
			t.log.Debug(ctx, "session lookup superseded by push")
			return false
		}
		return true
	}, s)
}

func (t *Tracker) onPush(s *models.Session) {
	t.apply(func() bool {
		t.pushes++
		return true
	}, s)
}

// apply sets next as current if accept agrees and delivers the transition.
// accept runs under mu.
func (t *Tracker) apply(accept func() bool, next *models.Session) {
	t.deliverMu.Lock()
	defer t.deliverMu.Unlock()

	t.mu.Lock()
	if !accept() {
		t.mu.Unlock()
		return
	}
	prev := t.current
	if !changed(prev, next) {
		t.mu.Unlock()
		return
	}
	t.current = next
	t.seq++
	tr := Transition{Seq: t.seq, Prev: prev, Next: next}
	fns := t.subscribersLocked()
	t.mu.Unlock()

	for _, fn := range fns {
		fn(tr)
	}
}

func changed(prev, next *models.Session) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	return prev.UserID != next.UserID || prev.Token != next.Token
}

func (t *Tracker) subscribersLocked() []func(Transition) {
	ids := make([]int, 0, len(t.subs))
	for id := range t.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Transition), len(ids))
	for i, id := range ids {
		fns[i] = t.subs[id]
	}
	return fns
}

// Current returns the current session or nil.
func (t *Tracker) Current() *models.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Subscribe registers fn for every later transition. The returned func
// removes it; calling it again does nothing.
func (t *Tracker) Subscribe(fn func(Transition)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// SignIn asks the provider to sign in. The resulting session arrives as a
// pushed transition; a failure leaves the current session unchanged.
func (t *Tracker) SignIn(ctx context.Context, provider string) error {
	if err := t.identity.SignIn(ctx, provider); err != nil {
		return asAuth("sign in", err)
	}
	return nil
}

func (t *Tracker) SignOut(ctx context.Context) error {
	if err := t.identity.SignOut(ctx); err != nil {
		return asAuth("sign out", err)
	}
	return nil
}

func asAuth(op string, err error) error {
	if common.IsAuth(err) {
		return err
	}
	return &common.AuthError{Op: op, Err: err}
}

// Close detaches from the provider feed. Later calls do nothing.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		unsub := t.unsubscribe
		t.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
}
