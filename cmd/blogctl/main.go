// Command blogctl is a terminal client for the blog API. It shares the
// session logic of the web panel and remembers the login in a local,
// encrypted SQLite file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/blogpanel/internal/adapter/driven/blogapi"
	memorystore "github.com/ericfisherdev/blogpanel/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/blogpanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/blogpanel/internal/application"
	"github.com/ericfisherdev/blogpanel/internal/config"
	"github.com/ericfisherdev/blogpanel/internal/domain/model"
	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// sessionKey is the token store key of the single CLI session.
const sessionKey = "cli"

// cliAPI is the part of the blog API the CLI talks to.
type cliAPI interface {
	driven.AuthAPI
	driven.PostAPI
}

// app holds the adapters opened for one invocation.
type app struct {
	api     cliAPI
	tokens  driven.TokenStore
	logger  *slog.Logger
	closeFn func() error
}

func (a *app) close() error {
	if a == nil || a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

type globalOptions struct {
	apiURL    string
	statePath string
	verbose   bool
}

// opener builds the adapters once flags are parsed.
type opener func(cmd *cobra.Command, opts *globalOptions) (*app, error)

// Compile-time interface satisfaction check.
var _ driven.Notifier = printNotifier{}

// printNotifier writes session notifications as "[level] message" lines.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Notify(_ context.Context, note model.Notification) {
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", note.Level, note.Message)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, openApp)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, open opener) int {
	c := &cli{open: open}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := c.app.close(); closeErr != nil {
		_, _ = fmt.Fprintf(stderr, "blogctl: closing state: %v\n", closeErr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "blogctl: %v\n", err)
		return 1
	}
	return 0
}

func openApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	apiURL := cfg.APIURL.String()
	if opts.apiURL != "" {
		apiURL = opts.apiURL
	}
	api, err := blogapi.NewClient(apiURL, cfg.APITimeout, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.HasSecretKey() {
		logger.Warn("BLOGPANEL_SECRET_KEY not set, the login will not be remembered")
		return &app{api: api, tokens: memorystore.NewTokenStore(), logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.statePath), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	db, err := sqliteadapter.NewDB(opts.statePath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := sqliteadapter.NewTokenRepo(db, cfg.SecretKey)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create token repo: %w", err)
	}
	return &app{api: api, tokens: repo, logger: logger, closeFn: db.Close}, nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "blogctl.db"
	}
	return filepath.Join(dir, "blogpanel", "blogctl.db")
}

// session restores the persisted CLI session. Notifications go to stderr.
func (c *cli) session(cmd *cobra.Command) (*application.SessionStore, error) {
	store := application.NewSessionStore(c.app.api, c.app.tokens, printNotifier{w: cmd.ErrOrStderr()}, sessionKey, c.app.logger)
	if err := store.Restore(cmd.Context()); err != nil {
		return nil, err
	}
	return store, nil
}
