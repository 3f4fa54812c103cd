package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/neuroflow/internal/backup"
	"github.com/julianstephens/neuroflow/internal/config"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/logger"
	"github.com/julianstephens/neuroflow/internal/metrics"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/notifier"
	"github.com/julianstephens/neuroflow/internal/storage"
	"github.com/julianstephens/neuroflow/internal/utils"
)

// ErrNoUser is returned by commands that need an onboarded user.
var ErrNoUser = errors.New("no user found; run 'neuroflow onboard' first")

// Context is handed to every command's Run method.
type Context struct {
	Ctx        context.Context
	Config     config.Config
	ConfigPath string
	ConfigDir  string
	Repo       *storage.Repository
	Dispatcher *engine.Dispatcher
	Metrics    *metrics.Metrics
	Out        io.Writer
	In         io.Reader
	Now        func() time.Time
}

// Open connects the configured medium, initializes missing tables and
// hydrates a dispatcher with the current user's data.
func Open(ctx context.Context, cfg config.Config, configDir string) (*Context, error) {
	mc, err := cfg.Medium(nil)
	if err != nil {
		return nil, err
	}
	medium, err := kv.Open(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", mc.Driver, err)
	}

	m := metrics.New()
	store := kv.NewTableStore(m.InstrumentMedium(medium), kv.WithPrefix(cfg.Storage.Prefix))
	repo := storage.New(store)
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	c, err := NewContext(ctx, cfg, repo, m, engine.WithObserver(notifyObserver(notifier.New())))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	c.ConfigDir = configDir
	return c, nil
}

// NewContext hydrates a dispatcher from repo. Tests build one over a memory medium.
func NewContext(ctx context.Context, cfg config.Config, repo *storage.Repository, m *metrics.Metrics, opts ...engine.Option) (*Context, error) {
	if m == nil {
		m = metrics.New()
	}
	c := &Context{
		Ctx:     ctx,
		Config:  cfg,
		Repo:    repo,
		Metrics: m,
		Out:     os.Stdout,
		In:      os.Stdin,
		Now:     time.Now,
	}
	opts = append([]engine.Option{engine.WithRecorder(m), engine.WithClock(func() time.Time { return c.Now().In(c.Location()) })}, opts...)
	c.Dispatcher = engine.NewDispatcher(repo, opts...)
	if _, err := c.Dispatcher.Hydrate(ctx, repo, cfg.UserID); err != nil {
		return nil, err
	}
	return c, nil
}

// notifyObserver only forwards events for users who enabled notifications.
func notifyObserver(n *notifier.Notifier) engine.Observer {
	forward := n.Observer()
	return func(ctx context.Context, ev engine.Event) {
		if ev.After.User == nil || !ev.After.User.Preferences.Notifications {
			return
		}
		forward(ctx, ev)
	}
}

func (c *Context) Close() error {
	if c.Repo == nil {
		return nil
	}
	return c.Repo.Close()
}

// Dispatch runs cmd through the engine and returns the new snapshot.
func (c *Context) Dispatch(cmd engine.Command) engine.Snapshot {
	return c.Dispatcher.Dispatch(c.Ctx, cmd)
}

func (c *Context) Snapshot() engine.Snapshot {
	return c.Dispatcher.Snapshot()
}

// RequireUser returns the loaded user or ErrNoUser.
func (c *Context) RequireUser() (*models.User, error) {
	s := c.Snapshot()
	if s.User == nil {
		return nil, ErrNoUser
	}
	return s.User, nil
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Location returns the configured timezone, falling back to local time.
func (c *Context) Location() *time.Location {
	loc, err := c.Config.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// ParseDate parses YYYY-MM-DD in the configured timezone; empty means now.
func (c *Context) ParseDate(s string) (time.Time, error) {
	if s == "" {
		return c.Now(), nil
	}
	t, err := utils.ParseDateInLocation(s, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.Repo.Store(), backup.DefaultDir(c.ConfigDir))
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.BackupManager().CreateBackup(c.Ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on In; anything but y/yes is no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// MatchID resolves input to one of ids, accepting any unique prefix or
// suffix. Listings print suffixes since UUIDv7 prefixes are timestamps.
func MatchID(input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("id is required")
	}
	var match string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) || strings.HasSuffix(id, input) {
			if match != "" && match != id {
				return "", fmt.Errorf("id %q is ambiguous", input)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no record with id %q", input)
	}
	return match, nil
}

// ShortID returns the random tail of a UUID for table output.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// ConfigDirFor returns the directory holding path.
func ConfigDirFor(path string) string {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(expanded)
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
