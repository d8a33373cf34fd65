package cli

import (
	"bufio"
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/notify"
	"github.com/dmitrijs2005/echovault/internal/client/services"
	"github.com/dmitrijs2005/echovault/internal/client/theme"
	"github.com/dmitrijs2005/echovault/internal/client/viewmodel"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

// Sessions is the part of session.Tracker the REPL drives.
type Sessions interface {
	Current() *models.Session
	SignIn(ctx context.Context, provider string) error
	SignOut(ctx context.Context) error
}

// Entries is the part of viewmodel.EntryViewModel the REPL drives.
type Entries interface {
	Snapshot() viewmodel.Snapshot
	Refresh(ctx context.Context) error
	Wait()
	SetSearchTerm(term string)
	SetViewMode(m models.ViewMode)
	Delete(ctx context.Context, id string) error
	Add(ctx context.Context, draft models.Draft) (*models.Entry, error)
}

// Themes is the part of theme.Resolver the REPL drives.
type Themes interface {
	State() theme.State
	SetTheme(ctx context.Context, t models.Theme) (theme.State, error)
	SetNightMode(ctx context.Context, on bool) (theme.State, error)
}

// Worker is a background loop run next to the REPL until it exits.
type Worker func(ctx context.Context) error

// Deps are the collaborators an App is built from.
type Deps struct {
	Sessions Sessions
	Entries  Entries
	Themes   Themes
	Notices  *notify.Center
	Accounts services.AuthService
	// Provider is the sign-in provider used by a bare "login".
	Provider string
	Reader   *bufio.Reader
	Out      io.Writer
	Log      logging.Logger
	Workers  []Worker
}

type App struct {
	sessions Sessions
	entries  Entries
	themes   Themes
	notices  *notify.Center
	accounts services.AuthService
	provider string
	reader   *bufio.Reader
	out      io.Writer
	log      logging.Logger
	workers  []Worker
}

func NewApp(d Deps) *App {
	a := &App{
		sessions: d.Sessions,
		entries:  d.Entries,
		themes:   d.Themes,
		notices:  d.Notices,
		accounts: d.Accounts,
		provider: d.Provider,
		reader:   d.Reader,
		out:      d.Out,
		log:      d.Log,
		workers:  d.Workers,
	}
	if a.log == nil {
		a.log = logging.Nop()
	}
	if a.notices != nil {
		a.notices.OnPost(a.printNotice)
	}
	return a
}

// Run starts the workers and the REPL. It returns once the user leaves the
// REPL and every worker has stopped, with the first worker error if any.
// A failing worker is logged and does not stop the REPL or the other
// workers; the REPL only stops on exit, EOF or cancellation of ctx.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	for _, w := range a.workers {
		g.Go(func() error {
			if err := w(ctx); err != nil {
				a.log.Error(ctx, "background worker stopped", "error", err)
				return err
			}
			return nil
		})
	}

	a.Root(ctx)
	cancel()

	return g.Wait()
}

// Root prints the greeting and blocks in the REPL until exit or EOF.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to EchoVault (type 'help' for commands)")
	if s := a.sessions.Current(); s != nil {
		a.println("Logged in as:", s.Email)
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

// status is shown in the prompt: the signed-in email and the applied theme.
func (a *App) status() string {
	s := string(a.themes.State().Applied)
	if cur := a.sessions.Current(); cur != nil {
		s = cur.Email + " " + s
	}
	return s
}

func (a *App) printNotice(n notify.Notice) {
	a.println(formatNotice(n))
}
