package view

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// fileChangedMsg reports that the document's modification time advanced.
type fileChangedMsg struct{}

// watchErrorMsg reports that the document could not be examined.
type watchErrorMsg struct{ err error }

// watcher detects changes to a file by polling its modification time.
type watcher struct {
	last time.Time
	path string
}

func newWatcher(path string) (*watcher, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &watcher{path: path, last: info.ModTime()}, nil
}

// changed reports whether the file was modified since the last call.
func (w *watcher) changed() (bool, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return false, err
	}

	if mod := info.ModTime(); mod.After(w.last) {
		w.last = mod

		return true, nil
	}

	return false, nil
}

// watch polls until ctx is done, sending a message for every change or
// failed check.
func (w *watcher) watch(ctx context.Context, interval time.Duration, send func(tea.Msg)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			switch ok, err := w.changed(); {
			case err != nil:
				send(watchErrorMsg{err: err})
			case ok:
				send(fileChangedMsg{})
			}
		}
	}
}
