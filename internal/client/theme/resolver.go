package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

// PreferenceStore is the persistence the resolver writes through to.
// preferences.Store implements it.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// State is a snapshot of the inputs and the applied result.
type State struct {
	Theme         models.Theme
	NightMode     bool
	OSPrefersDark bool
	Applied       models.AppliedTheme
}

// Resolver keeps theme and night mode consistent with each other, persists
// them and tells subscribers about every effective change.
type Resolver struct {
	store  PreferenceStore
	scheme SchemeSource
	log    logging.Logger

	mu     sync.Mutex
	theme  models.Theme
	night  bool
	osDark bool

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// NewResolver loads both preferences. An unknown or missing theme falls back
// to def.
func NewResolver(ctx context.Context, store PreferenceStore, scheme SchemeSource, def models.Theme, log logging.Logger) (*Resolver, error) {
	r := &Resolver{
		store:  store,
		scheme: scheme,
		log:    log,
		theme:  def,
		osDark: scheme.PrefersDark(),
		subs:   make(map[int]func(State)),
	}

	raw, ok, err := store.Get(ctx, common.ThemePreferenceKey)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if ok {
		if t, perr := models.ParseTheme(raw); perr == nil {
			r.theme = t
		} else {
			log.Warn(ctx, "ignoring stored theme", "value", raw)
		}
	}

	if r.night, err = store.GetBool(ctx, common.NightModePreferenceKey, false); err != nil {
		return nil, fmt.Errorf("load night mode: %w", err)
	}
	return r, nil
}

func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Resolver) stateLocked() State {
	return State{
		Theme:         r.theme,
		NightMode:     r.night,
		OSPrefersDark: r.osDark,
		Applied:       Resolve(r.night, r.theme, r.osDark),
	}
}

// SetTheme persists t. Any theme other than dark switches night mode off,
// also when t is already the current theme.
func (r *Resolver) SetTheme(ctx context.Context, t models.Theme) (State, error) {
	r.mu.Lock()
	switch {
	case t != r.theme:
		if err := r.store.Set(ctx, common.ThemePreferenceKey, string(t)); err != nil {
			s := r.stateLocked()
			r.mu.Unlock()
			return s, err
		}
		r.theme = t
	case t == models.ThemeDark || !r.night:
		s := r.stateLocked()
		r.mu.Unlock()
		return s, nil
	}

	if t != models.ThemeDark && r.night {
		if err := r.store.SetBool(ctx, common.NightModePreferenceKey, false); err != nil {
			s := r.stateLocked()
			r.mu.Unlock()
			r.notify(s)
			return s, err
		}
		r.night = false
	}

	s := r.stateLocked()
	r.mu.Unlock()

	r.log.Debug(ctx, "theme changed", "theme", s.Theme, "night_mode", s.NightMode, "applied", s.Applied)
	r.notify(s)
	return s, nil
}

// SetNightMode persists on. Enabling it while the theme is light switches
// the theme to dark.
func (r *Resolver) SetNightMode(ctx context.Context, on bool) (State, error) {
	r.mu.Lock()
	if on == r.night {
		s := r.stateLocked()
		r.mu.Unlock()
		return s, nil
	}

	if on && r.theme == models.ThemeLight {
		if err := r.store.Set(ctx, common.ThemePreferenceKey, string(models.ThemeDark)); err != nil {
			s := r.stateLocked()
			r.mu.Unlock()
			return s, err
		}
		r.theme = models.ThemeDark
	}

	if err := r.store.SetBool(ctx, common.NightModePreferenceKey, on); err != nil {
		s := r.stateLocked()
		r.mu.Unlock()
		return s, err
	}
	r.night = on

	s := r.stateLocked()
	r.mu.Unlock()

	r.log.Debug(ctx, "night mode changed", "theme", s.Theme, "night_mode", s.NightMode, "applied", s.Applied)
	r.notify(s)
	return s, nil
}

// SetOSPrefersDark records a new OS preference. Subscribers are notified
// whenever the value changes, although only theme system renders
// differently.
func (r *Resolver) SetOSPrefersDark(dark bool) {
	r.mu.Lock()
	if dark == r.osDark {
		r.mu.Unlock()
		return
	}
	r.osDark = dark
	s := r.stateLocked()
	r.mu.Unlock()

	r.notify(s)
}

// Run follows the OS scheme source until ctx is done.
func (r *Resolver) Run(ctx context.Context) error {
	r.SetOSPrefersDark(r.scheme.PrefersDark())
	return r.scheme.Watch(ctx, r.SetOSPrefersDark)
}

// Subscribe registers fn for state changes. The returned func removes it.
func (r *Resolver) Subscribe(fn func(State)) func() {
	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subs, id)
			r.subMu.Unlock()
		})
	}
}

func (r *Resolver) notify(s State) {
	r.subMu.Lock()
	fns := make([]func(State), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
