package cli

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/taggle/pkg/dataset"
)

// debounce is how long a burst of writes must settle before reloading.
const debounce = 150 * time.Millisecond

// datasetWatcher reloads a dataset file when it changes on disk.
type datasetWatcher struct {
	path string
	fsw  *fsnotify.Watcher
}

// newDatasetWatcher watches the directory containing path. Editors often
// replace files atomically, which a watch on the file itself would miss.
func newDatasetWatcher(path string) (*datasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &datasetWatcher{path: abs, fsw: fsw}, nil
}

func (w *datasetWatcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether ev changes the watched file.
func (w *datasetWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Cmd blocks until the file changes and settles, then loads it. The
// returned message is a reloadMsg; nil once the watcher is closed.
func (w *datasetWatcher) Cmd() tea.Cmd {
	return func() tea.Msg {
		changed, err := w.wait()
		if err != nil {
			return reloadMsg{err: err}
		}
		if !changed {
			return nil
		}
		ds, err := dataset.Load(w.path)
		return reloadMsg{ds: ds, err: err}
	}
}

func (w *datasetWatcher) wait() (changed bool, err error) {
	var settle <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return false, nil
			}
			if w.relevant(ev) {
				settle = time.After(debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return false, nil
			}
			return false, err
		case <-settle:
			return true, nil
		}
	}
}
