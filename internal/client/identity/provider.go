// Package identity is the local identity provider. It issues signed session
// tokens, keeps the current one in the metadata table for silent restoration
// on the next start, refreshes and expires sessions, and pushes every change
// to its subscribers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/echovault/internal/client/services"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

// Authenticator proves an identity for one named sign-in provider.
type Authenticator interface {
	Authenticate(ctx context.Context) (*services.Account, error)
}

// Options configures a Provider.
type Options struct {
	// Secret signs session tokens. Empty means a random secret kept in the
	// metadata table.
	Secret string
	TTL    time.Duration
	// CheckInterval is how often Run looks for an expired session.
	CheckInterval time.Duration
	// RefreshWindow is how close to expiry Run re-issues the token.
	// Zero means a quarter of TTL.
	RefreshWindow time.Duration
}

// Provider implements client.Identity.
type Provider struct {
	repo     metadata.Repository
	secret   []byte
	ttl      time.Duration
	interval time.Duration
	window   time.Duration
	log      logging.Logger
	now      func() time.Time

	authMu sync.RWMutex
	auth   map[string]Authenticator

	// deliverMu is held from a state change through its push, so
	// subscribers see changes in the order they were made. Subscribers
	// must not call SignIn, SignOut or Refresh.
	deliverMu sync.Mutex

	mu      sync.Mutex
	current *models.Session
	loaded  bool

	subMu  sync.Mutex
	subs   map[int]func(*models.Session)
	nextID int
}

func NewProvider(ctx context.Context, repo metadata.Repository, opts Options, log logging.Logger) (*Provider, error) {
	secret, err := loadSecret(ctx, repo, opts.Secret)
	if err != nil {
		return nil, err
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = time.Minute
	}
	if opts.RefreshWindow <= 0 || opts.RefreshWindow >= opts.TTL {
		opts.RefreshWindow = opts.TTL / 4
	}
	return &Provider{
		repo:     repo,
		secret:   secret,
		ttl:      opts.TTL,
		interval: opts.CheckInterval,
		window:   opts.RefreshWindow,
		log:      log,
		now:      time.Now,
		auth:     make(map[string]Authenticator),
		subs:     make(map[int]func(*models.Session)),
	}, nil
}

func loadSecret(ctx context.Context, repo metadata.Repository, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	v, err := repo.Get(ctx, common.SessionSecretKey)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("load session secret: %w", err)
	}

	secret := common.GenerateRandByteArray(32)
	if err := repo.Set(ctx, common.SessionSecretKey, secret); err != nil {
		return nil, fmt.Errorf("store session secret: %w", err)
	}
	return secret, nil
}

// Use registers an Authenticator under name, replacing any previous one.
func (p *Provider) Use(name string, a Authenticator) {
	p.authMu.Lock()
	p.auth[name] = a
	p.authMu.Unlock()
}

// CurrentSession returns the signed-in session, restoring a persisted token
// on first use. An invalid or expired stored token is discarded.
func (p *Provider) CurrentSession(ctx context.Context) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.current, nil
	}

	tok, err := p.repo.Get(ctx, common.SessionTokenKey)
	if errors.Is(err, common.ErrNotFound) {
		p.loaded = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s, err := ParseToken(string(tok), p.secret, p.now())
	if err != nil {
		p.log.Info(ctx, "discarding stored session", "reason", err)
		if derr := p.repo.Delete(ctx, common.SessionTokenKey); derr != nil {
			return nil, fmt.Errorf("drop session: %w", derr)
		}
		p.loaded = true
		return nil, nil
	}

	p.current = s
	p.loaded = true
	return s, nil
}

// OnSessionChange registers fn for pushed changes. nil means signed out.
func (p *Provider) OnSessionChange(fn func(*models.Session)) func() {
	p.subMu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subs, id)
			p.subMu.Unlock()
		})
	}
}

func (p *Provider) push(s *models.Session) {
	p.subMu.Lock()
	fns := make([]func(*models.Session), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// SignIn runs the named authenticator and establishes a session for the
// account it returns.
func (p *Provider) SignIn(ctx context.Context, provider string) error {
	p.authMu.RLock()
	a, ok := p.auth[provider]
	p.authMu.RUnlock()
	if !ok {
		return &common.AuthError{Op: "sign in", Err: fmt.Errorf("%w: %q", common.ErrUnknownProvider, provider)}
	}

	acc, err := a.Authenticate(ctx)
	if err != nil {
		return &common.AuthError{Op: "sign in", Err: err}
	}
	return p.Establish(ctx, acc)
}

// Establish issues and persists a session for acc and pushes it.
func (p *Provider) Establish(ctx context.Context, acc *services.Account) error {
	s, err := p.issue(acc.UserID, acc.Email)
	if err != nil {
		return &common.AuthError{Op: "sign in", Err: err}
	}

	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	if err := p.repo.Set(ctx, common.SessionTokenKey, []byte(s.Token)); err != nil {
		p.mu.Unlock()
		return &common.AuthError{Op: "sign in", Err: err}
	}
	p.current = s
	p.loaded = true
	p.mu.Unlock()

	p.log.Info(ctx, "signed in", "user_id", s.UserID)
	p.push(s)
	return nil
}

func (p *Provider) issue(userID, email string) (*models.Session, error) {
	tok, exp, err := GenerateToken(userID, email, p.secret, p.now(), p.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.Session{Token: tok, UserID: userID, Email: email, ExpiresAt: exp}, nil
}

// SignOut forgets the persisted token and pushes an absent session.
func (p *Provider) SignOut(ctx context.Context) error {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	if err := p.repo.Delete(ctx, common.SessionTokenKey); err != nil {
		p.mu.Unlock()
		return &common.AuthError{Op: "sign out", Err: err}
	}
	p.current = nil
	p.loaded = true
	p.mu.Unlock()

	p.log.Info(ctx, "signed out")
	p.push(nil)
	return nil
}

// Refresh re-issues the token for the same identity with a new expiry and
// pushes the new session.
func (p *Provider) Refresh(ctx context.Context) error {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	cur := p.current
	if cur == nil {
		p.mu.Unlock()
		return &common.AuthError{Op: "refresh", Err: common.ErrNotLoggedIn}
	}

	s, err := p.issue(cur.UserID, cur.Email)
	if err == nil {
		err = p.repo.Set(ctx, common.SessionTokenKey, []byte(s.Token))
	}
	if err != nil {
		p.mu.Unlock()
		return &common.AuthError{Op: "refresh", Err: err}
	}
	p.current = s
	p.mu.Unlock()

	p.log.Debug(ctx, "session refreshed", "user_id", s.UserID, "expires_at", s.ExpiresAt)
	p.push(s)
	return nil
}

// Run re-issues the current token once it is within the refresh window of
// its expiry and expires the session once the token lapses. It returns when
// ctx is done.
func (p *Provider) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

func (p *Provider) check(ctx context.Context) {
	if p.expire(ctx) || !p.refreshDue() {
		return
	}
	if err := p.Refresh(ctx); err != nil && !errors.Is(err, common.ErrNotLoggedIn) {
		p.log.Error(ctx, "refresh session", "error", err)
	}
}

func (p *Provider) refreshDue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && !p.now().Before(p.current.ExpiresAt.Add(-p.window))
}

// expire drops a lapsed session and reports whether it did.
func (p *Provider) expire(ctx context.Context) bool {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	cur := p.current
	if cur == nil || p.now().Before(cur.ExpiresAt) {
		p.mu.Unlock()
		return false
	}
	if err := p.repo.Delete(ctx, common.SessionTokenKey); err != nil {
		p.log.Error(ctx, "drop expired session", "error", err)
	}
	p.current = nil
	p.mu.Unlock()

	p.log.Info(ctx, "session expired", "user_id", cur.UserID)
	p.push(nil)
	return true
}
