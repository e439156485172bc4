package state

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Paintersrp/notehub/internal/config"
	"github.com/Paintersrp/notehub/internal/constants"
	"github.com/Paintersrp/notehub/internal/draft"
	"github.com/Paintersrp/notehub/internal/location"
	"github.com/Paintersrp/notehub/internal/notestore"
	"github.com/Paintersrp/notehub/internal/querycache"
)

// HeartbeatInterval is how often the cache status line is refreshed.
const HeartbeatInterval = 15 * time.Second

type Options struct {
	// Home overrides the user's home directory.
	Home string
	// Offline serves sample notes from memory instead of the configured API.
	Offline bool
	// Start is the initial address, such as "/notes/filter/Work?page=2".
	Start string
	// WatchDraft reloads the draft when another process changes it.
	WatchDraft bool
	// LogWriter replaces the configured log file.
	LogWriter io.Writer
}

type State struct {
	Config     *config.Config
	Home       string
	Offline    bool
	Logger     *slog.Logger
	Store      notestore.Store
	History    *location.History
	Sync       *location.Synchronizer
	Cache      *querycache.Cache
	Draft      *draft.Store
	Workflow   *draft.Workflow
	Watcher    *DraftWatcher
	RootStatus *RootStatus

	logFile io.Closer
}

func NewState(opts Options) (*State, error) {
	home := opts.Home
	if home == "" {
		var err error
		home, err = GetHomeDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		var initErr *config.ConfigInitError
		if !opts.Offline || !errors.As(err, &initErr) {
			return nil, err
		}
		cfg = config.Default(home)
	}

	return Build(home, cfg, opts)
}

// Build wires every component from an already loaded configuration.
func Build(home string, cfg *config.Config, opts Options) (*State, error) {
	s := &State{
		Config:     cfg,
		Home:       home,
		Offline:    opts.Offline,
		RootStatus: &RootStatus{},
	}

	logger, closer, err := openLogger(cfg, opts.LogWriter)
	if err != nil {
		return nil, err
	}
	s.Logger = logger
	s.logFile = closer

	if opts.Offline {
		s.Store = notestore.NewMemory(notestore.SampleNotes()...)
	} else {
		client, err := notestore.NewHTTPClient(
			cfg.BaseURL,
			cfg.Timeout(),
			notestore.WithToken(cfg.Token),
			notestore.WithLogger(logger.With("component", "notestore")),
		)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Store = client
	}

	start, err := location.Parse(opts.Start)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("invalid location %q: %w", opts.Start, err)
	}
	s.History = location.NewHistory(start)
	s.Sync = location.NewSynchronizer(s.History, logger.With("component", "location"))

	s.Cache = querycache.New(s.Store, querycache.Options{
		PerPage:    cfg.PerPage,
		Timeout:    cfg.Timeout(),
		MaxEntries: cfg.CacheEntries,
		Logger:     logger.With("component", "querycache"),
	})

	s.Draft, err = draft.Open(cfg.DraftFile, logger.With("component", "draft"))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open draft: %w", err)
	}
	s.Workflow = draft.NewWorkflow(s.Draft, s.Store, cfg.Timeout(), logger.With("component", "draft"))

	if opts.WatchDraft {
		s.startWatcher()
	}

	return s, nil
}

func (s *State) startWatcher() {
	path := s.Draft.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.Logger.Warn("draft watcher disabled", "err", err)
		return
	}

	watcher, err := NewDraftWatcher(path)
	if err != nil {
		s.Logger.Warn("draft watcher disabled", "err", err)
		return
	}
	watcher.OnChange(func(p string) {
		s.Logger.Debug("draft file changed", "path", p)
	})
	s.Watcher = watcher
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	err := config.EnsureConfigExists(home)
	if err != nil {
		return nil, err
	}

	return config.Load(home)
}

func openLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if w != nil {
		return slog.New(slog.NewTextHandler(w, opts)), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

// Close releases resources associated with the state, including the draft
// watcher and the log file.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	if s.logFile != nil {
		if err := s.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
		s.logFile = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
