package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/notify"
	"github.com/dmitrijs2005/echovault/internal/client/viewmodel"
	"github.com/dmitrijs2005/echovault/internal/common"
)

const (
	msgEmptyVault = "Your vault is quiet. Time to add some memories!"
	msgLoading    = "Loading your memories..."
	msgLoggedOut  = "Please log in to see your memories."
	msgMindMap    = "Mind Map view coming soon! Visualise your connected thoughts."
	msgStale      = "Could not refresh your memories; showing the last loaded list."
)

// Prompt and file helpers are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
	readFile      = os.ReadFile
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Register creates a local password account. The password is wiped before
// returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.accounts.Register(ctx, email, password)
	if err != nil {
		a.notices.Error(notify.TitleFor("register", err), err)
		return err
	}

	a.log.Info(ctx, "account registered", "user_id", acc.UserID)
	a.println("Account created for", acc.Email+". Use 'login' to sign in.")
	return nil
}

// Login signs in with provider, or the default provider when empty.
func (a *App) Login(ctx context.Context, provider string) error {
	if provider == "" {
		provider = a.provider
	}
	if err := a.sessions.SignIn(ctx, provider); err != nil {
		a.notices.Error(notify.TitleFor("sign in", err), err)
		return err
	}
	return a.Whoami(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if a.sessions.Current() == nil {
		a.println("You are not logged in.")
		return nil
	}
	if err := a.sessions.SignOut(ctx); err != nil {
		a.notices.Error(notify.TitleFor("sign out", err), err)
		return err
	}
	a.notices.Info(notify.TitleLoggedOut, "You have been signed out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	s := a.sessions.Current()
	if s == nil {
		a.println("You are not logged in.")
		return nil
	}
	a.println("Logged in as:", s.Email)
	return nil
}

// List prints the visible entries. A fetch in flight is waited for.
func (a *App) List(ctx context.Context) error {
	snap := a.entries.Snapshot()
	if snap.Status == viewmodel.StatusLoading {
		a.println(msgLoading)
		a.entries.Wait()
		snap = a.entries.Snapshot()
	}
	a.render(snap)
	return nil
}

func (a *App) render(snap viewmodel.Snapshot) {
	switch {
	case snap.Status == viewmodel.StatusLoggedOut:
		a.println(msgLoggedOut)
		return
	case snap.Status == viewmodel.StatusLoading:
		a.println(msgLoading)
		return
	case snap.ViewMode == models.ViewMindMap:
		a.println(msgMindMap)
		return
	case snap.Status == viewmodel.StatusEmpty:
		if snap.FetchErr == nil {
			a.println(msgEmptyVault)
		}
		return
	}

	if common.IsRemote(snap.FetchErr) {
		a.println(msgStale)
	}
	if len(snap.Visible) == 0 {
		a.println(fmt.Sprintf("No memories match %q.", snap.SearchTerm))
		return
	}
	for _, e := range snap.Visible {
		a.println(formatEntry(e))
	}
}

// Search narrows the list to term; an empty term shows everything.
func (a *App) Search(ctx context.Context, term string) error {
	a.entries.SetSearchTerm(strings.TrimSpace(term))
	return a.List(ctx)
}

func (a *App) View(ctx context.Context, mode string) error {
	m, err := models.ParseViewMode(mode)
	if err != nil {
		a.println("Usage: view timeline|mindmap")
		return err
	}
	a.entries.SetViewMode(m)
	return a.List(ctx)
}

// Add prompts for content, tags and an optional audio file and saves the
// memory. Outcome notices come from the view model.
func (a *App) Add(ctx context.Context) error {
	if a.sessions.Current() == nil {
		err := &common.AuthError{Op: "create", Err: common.ErrNotLoggedIn}
		a.notices.Error(notify.TitleNotLoggedIn, err)
		return err
	}

	content, err := getMultiline(a.reader, "What's on your mind?", a.out)
	if err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags (comma separated, optional)", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Audio file (optional)", a.out)
	if err != nil {
		return err
	}

	draft := models.Draft{Content: content, Tags: SplitTags(tags)}
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			a.notices.Error(notify.TitleSaveFailed, fmt.Errorf("read audio: %w", err))
			return err
		}
		draft.Audio = data
	}

	saved, err := a.entries.Add(ctx, draft)
	if err != nil {
		return err
	}
	a.log.Debug(ctx, "entry added", "entry_id", saved.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	err := a.entries.Delete(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.println("No memory with id", id)
	case errors.Is(err, common.ErrDeleteInProgress):
		a.println("Memory", id, "is already being deleted.")
	}
	return err
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.entries.Refresh(ctx); err != nil {
		a.println(msgLoggedOut)
		return err
	}
	return a.List(ctx)
}

// Theme prints the current theme state, or sets the theme when arg is given.
func (a *App) Theme(ctx context.Context, arg string) error {
	if arg == "" {
		a.println(formatTheme(a.themes.State()))
		return nil
	}
	t, err := models.ParseTheme(arg)
	if err != nil {
		a.println("Usage: theme [system|light|dark]")
		return err
	}
	s, err := a.themes.SetTheme(ctx, t)
	if err != nil {
		a.notices.Error(notify.TitleError, err)
		return err
	}
	a.println(formatTheme(s))
	return nil
}

func (a *App) Night(ctx context.Context, arg string) error {
	var on bool
	switch arg {
	case "on":
		on = true
	case "off":
	case "":
		a.println(formatTheme(a.themes.State()))
		return nil
	default:
		a.println("Usage: night on|off")
		return fmt.Errorf("night: unknown value %q", arg)
	}
	s, err := a.themes.SetNightMode(ctx, on)
	if err != nil {
		a.notices.Error(notify.TitleError, err)
		return err
	}
	a.println(formatTheme(s))
	return nil
}

func (a *App) Notices(ctx context.Context) error {
	list := a.notices.List()
	if len(list) == 0 {
		a.println("No notifications.")
		return nil
	}
	for _, n := range list {
		a.println(fmt.Sprintf("%d. %s", n.ID, formatNotice(n)))
	}
	return nil
}

// Dismiss removes one notice by number, or all of them.
func (a *App) Dismiss(ctx context.Context, arg string) error {
	if arg == "all" {
		a.notices.Clear()
		return nil
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		a.println("Usage: dismiss <n|all>")
		return err
	}
	if err := a.notices.Dismiss(id); err != nil {
		a.println("No notification", id)
		return err
	}
	return nil
}
