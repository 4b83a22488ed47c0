package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/dmitrijs2005/kasa/internal/common"
	"github.com/dmitrijs2005/kasa/internal/config"
	"github.com/dmitrijs2005/kasa/internal/credentials"
	"github.com/dmitrijs2005/kasa/internal/lifecycle"
	"github.com/dmitrijs2005/kasa/internal/logging"
	"github.com/dmitrijs2005/kasa/internal/notes"
	"github.com/dmitrijs2005/kasa/internal/session"
	"github.com/dmitrijs2005/kasa/internal/storage"
	"github.com/dmitrijs2005/kasa/internal/theme"
	"github.com/dmitrijs2005/kasa/internal/vault"
)

// Test seams.
var (
	clipboardWrite = clipboard.WriteAll
	exitFn         = os.Exit
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	gate    *session.Gate
	themes  theme.Store
	toast   *Toast
	watcher *lifecycle.Watcher
	reader  *bufio.Reader
	out     io.Writer

	closeOnce sync.Once
	closeErr  error
}

// NewApp opens the vault database named in c and wires the session.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	watcher := lifecycle.NewWatcher(c.AutoLockAfter, log)
	in := bufio.NewReader(&activityReader{r: os.Stdin, touch: watcher.Touch})

	app, err := newApp(ctx, c, log, db, in, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.watcher = watcher
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, db *sql.DB, reader *bufio.Reader, out io.Writer) (*App, error) {
	auth := vault.NewAuthenticator(
		credentials.NewSQLiteStore(db),
		vault.NewSQLiteLockStateStore(db),
		vault.CooldownPolicy{MaxFailedAttempts: c.MaxFailedAttempts, Base: c.CooldownBase},
		log,
	)

	gate, err := session.New(ctx, auth, notes.NewSQLiteStore(db), log)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	themes := theme.NewSQLiteStore(db)
	th, err := themes.Theme(ctx)
	if err != nil {
		log.Warn(ctx, "failed to read theme, using default", "error", err)
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		gate:   gate,
		themes: themes,
		toast:  NewToast(out, th),
		reader: reader,
		out:    out,
	}
	gate.OnTransition(a.onTransition)
	return a, nil
}

// onTransition reports locks the user did not ask for in this command,
// e.g. from the idle timer or a signal.
func (a *App) onTransition(from, to session.State) {
	if to == session.StateLocked && from == session.StateUnlocked {
		a.toast.Info("Vault locked.")
	}
}

func (a *App) state() session.State {
	return a.gate.State()
}

func (a *App) status() string {
	return a.state().String()
}

// initSignalHandler locks the vault and exits on interrupt. The gate's
// mutex makes Lock wait for a save in progress.
func (a *App) initSignalHandler(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case <-sigs:
			a.gate.Lock(ctx)
			_ = a.Close()
			fmt.Fprintln(a.out, "\nBye!")
			exitFn(130)
		case <-ctx.Done():
			signal.Stop(sigs)
		}
	}()
}

// Run starts the lifecycle watcher and the REPL and blocks until the user
// exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	a.initSignalHandler(ctx)

	touch := func() {}
	if a.watcher != nil {
		go a.watcher.Run(ctx, a.gate.SetActive)
		touch = a.watcher.Touch
	}

	fmt.Fprintf(a.out, "Welcome to %s (type 'help' for commands)\n", common.AppName)
	if a.state() == session.StateSetup {
		a.toast.Info("No vault yet. Type 'setup' to create one.")
	}

	runREPL(ctx, a, a.status, a.reader, touch)
	a.gate.Lock(ctx)
}

// Close releases the database. Safe to call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.db.Close()
	})
	return a.closeErr
}

// fail reports err to the user and returns it.
func (a *App) fail(ctx context.Context, err error) error {
	a.log.Debug(ctx, "command failed", "error", err)
	a.toast.Error("%s", describe(err))
	return err
}
