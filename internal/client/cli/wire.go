package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/echovault/internal/client/audio"
	"github.com/dmitrijs2005/echovault/internal/client/client"
	"github.com/dmitrijs2005/echovault/internal/client/config"
	"github.com/dmitrijs2005/echovault/internal/client/identity"
	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/notify"
	"github.com/dmitrijs2005/echovault/internal/client/preferences"
	"github.com/dmitrijs2005/echovault/internal/client/repositories/entries"
	"github.com/dmitrijs2005/echovault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/echovault/internal/client/services"
	"github.com/dmitrijs2005/echovault/internal/client/session"
	"github.com/dmitrijs2005/echovault/internal/client/theme"
	"github.com/dmitrijs2005/echovault/internal/client/viewmodel"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/filex"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

// NewFromConfig opens the local database and the record service named by
// cfg and wires the whole client. The returned close func releases
// everything in reverse order; call it after Run returns.
func NewFromConfig(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		closeAll()
		return nil, nil, err
	}

	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return fail(err)
	}
	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return fail(fmt.Errorf("init database: %w", err))
	}
	closers = append(closers, func() { _ = db.Close() })

	records, closeRecords, err := openRecords(ctx, cfg, db)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeRecords)

	store, err := openAudio(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	meta := metadata.NewSQLiteRepository(db)
	prefs := preferences.NewStore(meta)
	accounts := services.NewAuthService(db)
	center := notify.NewCenter()
	reader := bufio.NewReader(in)

	var scheme theme.SchemeSource = theme.StaticScheme(cfg.OSPrefersDark)
	if cfg.ColorSchemeFile != "" {
		scheme = theme.NewFileScheme(cfg.ColorSchemeFile, log)
	}
	def, err := models.ParseTheme(cfg.DefaultTheme)
	if err != nil {
		log.Warn(ctx, "invalid default theme, using dark", "value", cfg.DefaultTheme)
		def = models.ThemeDark
	}
	resolver, err := theme.NewResolver(ctx, prefs, scheme, def, log)
	if err != nil {
		return fail(fmt.Errorf("load theme: %w", err))
	}
	unsubTheme := resolver.Subscribe(func(s theme.State) {
		log.Info(ctx, "theme applied", "theme", s.Theme, "night_mode", s.NightMode, "applied", s.Applied)
	})
	closers = append(closers, unsubTheme)

	provider, err := identity.NewProvider(ctx, meta, identity.Options{
		Secret:        cfg.SessionSecret,
		TTL:           cfg.SessionTTL,
		CheckInterval: cfg.ExpiryCheckInterval,
		RefreshWindow: cfg.SessionRefreshWindow,
	}, log)
	if err != nil {
		return fail(fmt.Errorf("identity provider: %w", err))
	}
	provider.Use(common.PasswordProvider, identity.NewPasswordAuthenticator(accounts, PromptCredentials(reader, out)))

	tracker := session.NewTracker(provider, log)
	repo := services.NewEntryRepository(records, store, log)
	vm := viewmodel.New(ctx, tracker, repo, center, log)
	closers = append(closers, func() {
		vm.Close()
		tracker.Close()
		vm.Wait()
	})

	tracker.Start(ctx)
	select {
	case <-tracker.Ready():
	case <-ctx.Done():
		return fail(ctx.Err())
	}

	app := NewApp(Deps{
		Sessions: tracker,
		Entries:  vm,
		Themes:   resolver,
		Notices:  center,
		Accounts: accounts,
		Provider: common.PasswordProvider,
		Reader:   reader,
		Out:      out,
		Log:      log,
		Workers:  []Worker{provider.Run, resolver.Run},
	})
	return app, closeAll, nil
}

func openRecords(ctx context.Context, cfg *config.Config, local *sql.DB) (client.Records, func(), error) {
	if cfg.RecordsDSN == "" {
		return entries.NewSQLiteRepository(local), func() {}, nil
	}
	db, err := client.OpenRecordsDB(ctx, cfg.RecordsDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open record service: %w", err)
	}
	return entries.NewPostgresRepository(db), func() { _ = db.Close() }, nil
}

func openAudio(ctx context.Context, cfg *config.Config) (audio.Store, error) {
	if !cfg.UseS3() {
		root, err := filex.EnsureDir(cfg.AudioDir)
		if err != nil {
			return nil, fmt.Errorf("audio store: %w", err)
		}
		return audio.NewDirStore(root), nil
	}
	s, err := audio.NewS3Store(ctx, cfg.S3())
	if err != nil {
		return nil, fmt.Errorf("audio store: %w", err)
	}
	return s, nil
}
