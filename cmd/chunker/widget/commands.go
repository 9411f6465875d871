package widget

import (
	"context"
	"os"
	"path/filepath"

	"chunker/internal/chunk"
	"chunker/internal/logging"
	"chunker/internal/session"
	"chunker/internal/table"
	"chunker/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// loadedMsg carries the result of a background spreadsheet load.
type loadedMsg struct {
	seq    int
	path   string
	rows   []table.Row
	size   int64
	reload bool
	err    error
}

// copiedMsg carries the result of a clipboard copy.
type copiedMsg struct {
	index   int
	pending chunk.List
	err     error
}

// fileChangedMsg is sent when the watched spreadsheet changes on disk.
type fileChangedMsg struct {
	path string
}

// watchStoppedMsg is sent when the watcher goroutine has exited.
type watchStoppedMsg struct{}

func loadCmd(ctx context.Context, loader RowLoader, seq int, path string, reload bool) tea.Cmd {
	return func() tea.Msg {
		var size int64
		if fi, err := os.Stat(path); err == nil {
			size = fi.Size()
		}
		rows, err := loader.Load(ctx, path)
		return loadedMsg{seq: seq, path: path, rows: rows, size: size, reload: reload, err: err}
	}
}

// copyCmd consumes a chunk from a snapshot of the session. The model applies
// the resulting list only when it receives the message.
func copyCmd(state session.State, consumer *chunk.Consumer, index int) tea.Cmd {
	return func() tea.Msg {
		next, err := state.Consume(consumer, index)
		return copiedMsg{index: index, pending: next.Pending, err: err}
	}
}

func waitForChange(fw *watch.FileWatcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-fw.Events():
			return fileChangedMsg{path: p}
		case <-fw.Done():
			return watchStoppedMsg{}
		}
	}
}

// startLoadCmd bumps the load sequence so results of older loads are ignored.
func (m *Model) startLoadCmd(path string) tea.Cmd {
	m.loadSeq++
	m.state = m.state.BeginLoad(path)
	m.status = "Loading " + path + "..."
	return tea.Batch(loadCmd(m.ctx, m.loader, m.loadSeq, path, false), m.spinner.Tick)
}

func (m *Model) reloadCmd(path string) tea.Cmd {
	m.loadSeq++
	return loadCmd(m.ctx, m.loader, m.loadSeq, path, true)
}

// ensureWatcher watches path, replacing any watcher on a different file.
func (m *Model) ensureWatcher(path string) tea.Cmd {
	if !m.watchEnabled {
		return nil
	}
	if m.watcher != nil {
		if abs, err := filepath.Abs(path); err == nil && abs == m.watcher.Path() {
			return nil
		}
		m.watcher.Stop()
		m.watcher = nil
	}

	fw, err := watch.NewFileWatcher(path, m.cfg.WatchDebounce())
	if err != nil {
		logging.WatchError("cannot watch %s: %v", path, err)
		return nil
	}
	if err := fw.Start(m.ctx); err != nil {
		logging.WatchError("cannot watch %s: %v", path, err)
		fw.Stop()
		return nil
	}
	m.watcher = fw
	return waitForChange(fw)
}
