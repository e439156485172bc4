package state

import (
	"errors"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Paintersrp/notehub/internal/pathutil"
)

type DraftChangedMsg struct {
	Path string
}

type DraftWatcherErrMsg struct {
	Err error
}

// DraftWatcher reports changes to the persisted draft made outside this
// process, such as `notehub draft clear` run from another terminal.
type DraftWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	done     chan struct{}
	once     sync.Once
	onChange func(string)
}

func NewDraftWatcher(path string) (*DraftWatcher, error) {
	normalized := pathutil.NormalizePath(path)
	if normalized == "" {
		return nil, errors.New("draft file cannot be empty")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dw := &DraftWatcher{
		watcher: w,
		path:    normalized,
		done:    make(chan struct{}),
	}

	// Editors and our own writes replace the file, so watch the directory.
	if err := w.Add(filepath.Dir(normalized)); err != nil {
		_ = dw.Close()
		return nil, err
	}
	return dw, nil
}

// Start returns a command that blocks until the next change to the draft
// file or watcher error. Exactly one Start should be outstanding; the
// caller re-issues it after each message.
func (w *DraftWatcher) Start() tea.Cmd {
	if w == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case <-w.done:
				return nil
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.isRelevant(event) {
					continue
				}
				if w.onChange != nil {
					w.onChange(w.path)
				}
				return DraftChangedMsg{Path: w.path}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return DraftWatcherErrMsg{Err: err}
				}
			}
		}
	}
}

func (w *DraftWatcher) Close() error {
	if w == nil {
		return nil
	}

	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
	})
	return closeErr
}

// OnChange registers a callback that receives the draft path whenever the
// file changes. Call it before the first Start.
func (w *DraftWatcher) OnChange(fn func(string)) {
	if w == nil {
		return
	}
	w.onChange = fn
}

func (w *DraftWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return pathutil.NormalizePath(event.Name) == w.path
}
