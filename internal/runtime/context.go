package runtime

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"boardkit.dev/boardkit/internal/boards"
	"boardkit.dev/boardkit/internal/boards/azcli"
	"boardkit.dev/boardkit/internal/boards/github"
	"boardkit.dev/boardkit/internal/config"
	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/manifest"
	"boardkit.dev/boardkit/internal/output"
	"boardkit.dev/boardkit/internal/tui"
)

// Context provides access to configuration, output, backend and manifest store for commands
type Context struct {
	context.Context
	Config *config.Config
	Splog  *output.Splog

	board      boards.Client
	store      manifest.Store
	closeStore func() error
}

// BoardFactory creates the backend client. Tests replace it with a fake.
var BoardFactory = NewBoard

// StoreFactory opens the manifest store. Tests replace it with an in-memory store.
var StoreFactory = func(cfg *config.Config) (manifest.Store, func() error, error) {
	return manifest.Open(cfg.Manifest.Backend, cfg.Manifest.Path)
}

// Options locates configuration and output for GetContext
type Options struct {
	ConfigFile string
	Flags      *pflag.FlagSet
	Out        io.Writer
}

// NewContext creates a context around an already loaded configuration
func NewContext(ctx context.Context, cfg *config.Config, splog *output.Splog) *Context {
	return &Context{Context: ctx, Config: cfg, Splog: splog}
}

// GetContext loads configuration and builds the logger it describes
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.ConfigFile, Flags: opts.Flags})
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	output.ConfigureColor(tui.IsTTY())

	splog, err := output.NewSplogWithOptions(output.Options{
		Writer:     out,
		Debug:      cfg.Debug,
		LogFile:    cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		splog.Debug("Debug logging enabled")
	}
	if cfg.File != "" {
		splog.Debug("Using config file %s", cfg.File)
	}
	return NewContext(ctx, cfg, splog), nil
}

// Board returns the backend client, creating it on first use
func (c *Context) Board() (boards.Client, error) {
	if c.board == nil {
		board, err := BoardFactory(c, c.Config, c.Splog)
		if err != nil {
			return nil, err
		}
		c.board = board
		c.Splog.Debug("Using backend %s", board.Name())
	}
	return c.board, nil
}

// Store returns the manifest store, opening it on first use
func (c *Context) Store() (manifest.Store, error) {
	if c.store == nil {
		store, closeFn, err := StoreFactory(c.Config)
		if err != nil {
			return nil, err
		}
		c.store = store
		c.closeStore = closeFn
	}
	return c.store, nil
}

// Close releases the manifest store and the log file
func (c *Context) Close() error {
	var firstErr error
	if c.closeStore != nil {
		firstErr = c.closeStore()
		c.closeStore = nil
	}
	if c.Splog != nil {
		if err := c.Splog.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewBoard creates the backend client named by cfg.Backend
func NewBoard(ctx context.Context, cfg *config.Config, splog *output.Splog) (boards.Client, error) {
	switch cfg.Backend {
	case boards.BackendAzure:
		runner := azcli.NewCommandRunner(cfg.Azure.Command, cfg.Azure.Timeout)
		return azcli.NewClient(runner, azcli.Options{
			Organization: cfg.Azure.Organization,
			Project:      cfg.Azure.Project,
			Logger:       splog,
		}), nil
	case boards.BackendGitHub:
		return newGitHubBoard(ctx, cfg.GitHub, splog)
	default:
		return nil, fmt.Errorf("%w: %q", boarderrors.ErrUnknownBackend, cfg.Backend)
	}
}

func newGitHubBoard(ctx context.Context, cfg config.GitHubConfig, splog *output.Splog) (boards.Client, error) {
	token := cfg.Token()
	if token == "" {
		return nil, fmt.Errorf("GitHub token not found: set %s", cfg.TokenEnv)
	}

	owner, repo, hostname := cfg.Owner, cfg.Repo, cfg.Hostname
	if owner == "" || repo == "" {
		info, err := github.DetectRepo(".")
		if err != nil {
			return nil, fmt.Errorf("github.owner and github.repo are not configured and could not be detected: %w", err)
		}
		splog.Debug("Detected repository %s/%s on %s", info.Owner, info.Repo, info.Hostname)
		if owner == "" {
			owner = info.Owner
		}
		if repo == "" {
			repo = info.Repo
		}
		if hostname == "" {
			hostname = info.Hostname
		}
	}

	return github.NewClient(ctx, github.Options{
		Owner:    owner,
		Repo:     repo,
		Hostname: hostname,
		Token:    token,
	})
}

// WithBoard injects a backend client
func (c *Context) WithBoard(board boards.Client) *Context {
	c.board = board
	return c
}

// WithStore injects a manifest store
func (c *Context) WithStore(store manifest.Store) *Context {
	c.store = store
	return c
}
