package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/client"
	"github.com/dmitrijs2005/promptmanager/internal/client/config"
	"github.com/dmitrijs2005/promptmanager/internal/client/prompts"
	"github.com/dmitrijs2005/promptmanager/internal/client/repositories/storage"
	"github.com/dmitrijs2005/promptmanager/internal/client/services"
	"github.com/dmitrijs2005/promptmanager/internal/client/ui"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config    *config.Config
	logger    logging.Logger
	api       client.Client
	db        *sql.DB
	session   *services.SessionService
	theme     *services.ThemeService
	presenter *ui.Presenter
	catalog   *prompts.Catalog
	reader    *bufio.Reader
	out       io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens local storage, builds the API client and the stores.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		repo storage.Repository
		db   *sql.DB
	)
	if c.StoragePath == "" {
		repo = storage.NewMemoryRepository()
	} else {
		var err error
		db, err = client.InitDatabase(ctx, c.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing storage: %w", err)
		}
		repo = storage.NewSQLiteRepository(db)
	}

	apiClient, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	env := ui.DetectTerminalEnvironment()
	a := newApp(c, logger, apiClient, repo, ui.NewPresenter(0), env)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, repo storage.Repository, presenter *ui.Presenter, env services.Environment) *App {
	return &App{
		config:    c,
		logger:    logger,
		api:       api,
		session:   services.NewSessionService(api, repo, logger),
		theme:     services.NewThemeService(repo, env, presenter, logger),
		presenter: presenter,
		catalog:   prompts.NewCatalog(prompts.Samples(time.Now())),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run restores the session in the background, applies the theme, starts
// the online watcher and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	go a.session.Initialize(ctx)
	a.theme.Initialize(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.println(a.presenter.Styles().Title.Render("promptmanager") + " (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	err := a.api.Close()
	if a.db != nil {
		if dbErr := a.db.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode
// between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.api.Ping(pingCtx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) getStatus() string {
	s := ""
	if id := a.session.Identity(); id != nil {
		s = id.Username + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) fail(err error) {
	a.println(a.presenter.Styles().Error.Render(err.Error()))
}

func (a *App) success(format string, args ...any) {
	a.println(a.presenter.Styles().Success.Render(fmt.Sprintf(format, args...)))
}

func (a *App) muted(format string, args ...any) {
	a.println(a.presenter.Styles().Muted.Render(fmt.Sprintf(format, args...)))
}
