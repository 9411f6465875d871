package widget

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"chunker/cmd/chunker/ui"
	"chunker/internal/chunk"
	"chunker/internal/logging"
	"chunker/internal/table"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading && !m.copying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m.handleLoaded(msg)

	case copiedMsg:
		return m.handleCopied(msg)

	case fileChangedMsg:
		return m.handleFileChanged(msg)

	case watchStoppedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (cursor blink, directory listings) goes to the
	// component that owns it.
	var cmd tea.Cmd
	if m.mode == PickerView {
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m.updateInputs(msg)
}

func (m *Model) resize(width, height int) {
	m.layout = ui.NewLayoutConfig(width, height)
	w := m.layout.ContentWidth()
	m.help.Width = w
	m.listVP.Width = w
	m.listVP.Height = m.layout.ListHeight()
	m.helpVP.Width = w
	m.helpVP.Height = max(3, height-ui.HeaderHeight-ui.FooterHeight-ui.ViewportVerticalPadding)
	m.picker.Height = max(3, height-ui.HeaderHeight-ui.FooterHeight-ui.ViewportVerticalPadding)
	m.fileInput.Width = w - 12
	m.nameInput.Width = w - 12
	m.limitInput.Width = w - 12
	m.refreshList()
	if m.mode == HelpView {
		m.refreshHelp()
	}
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.loadSeq {
		logging.UIDebug("dropping stale load of %s", msg.path)
		return m, nil
	}
	if errors.Is(msg.err, context.Canceled) {
		m.state = m.state.LoadFailed()
		return m, nil
	}

	name := filepath.Base(msg.path)
	if msg.err != nil {
		if msg.reload {
			logging.LoaderWarn("reload of %s failed: %v", msg.path, msg.err)
			m.status = m.styles.Warning.Render(fmt.Sprintf("Reload of %s failed; keeping previous rows", name))
			return m, nil
		}
		logging.LoaderError("load of %s failed: %v", msg.path, msg.err)
		m.state = m.state.LoadFailed()
		m.status = ""
		m.showAlert(alertError, fmt.Sprintf("Could not read %s.\n\n%v", name, msg.err))
		return m, nil
	}

	m.state = m.state.Loaded(msg.path, msg.rows)
	m.fileSize = msg.size
	verb := "Loaded"
	if msg.reload {
		verb = "Reloaded"
	}
	m.status = fmt.Sprintf("%s %s rows (%s) from %s",
		verb, humanize.Comma(int64(len(msg.rows))), humanize.Bytes(uint64(msg.size)), name)
	if len(msg.rows) > 0 {
		if missing := table.HasColumns(msg.rows, m.cols.Name, m.cols.Email); len(missing) > 0 {
			m.status += m.styles.Warning.Render(fmt.Sprintf("  missing column(s): %s", strings.Join(missing, ", ")))
		}
	}
	return m, m.ensureWatcher(msg.path)
}

func (m Model) handleCopied(msg copiedMsg) (tea.Model, tea.Cmd) {
	m.copying = false
	if msg.err != nil {
		m.showAlert(alertError, msg.err.Error())
		return m, nil
	}

	m.state.Pending = msg.pending
	if m.cursor >= m.state.Pending.Len() {
		m.cursor = max(0, m.state.Pending.Len()-1)
	}
	text := fmt.Sprintf("Chunk %d copied to the clipboard.", msg.index+1)
	if m.state.Pending.Len() == 0 {
		text += "\n\nAll chunks have been copied."
		m.setFocus(FocusFile)
	}
	m.status = fmt.Sprintf("%d chunk(s) left", m.state.Pending.Len())
	if m.cfg.UI.ConfirmCopy {
		m.showAlert(alertInfo, text)
	}
	m.refreshList()
	return m, nil
}

func (m Model) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	if m.watcher == nil || msg.path != m.watcher.Path() {
		return m, nil
	}
	rearm := waitForChange(m.watcher)
	if m.state.Loading {
		return m, rearm
	}
	logging.Watch("reloading %s", msg.path)
	return m, tea.Batch(rearm, m.reloadCmd(msg.path))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, m.exit()
	}

	if m.alert != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = nil
		}
		return m, nil
	}

	switch m.mode {
	case HelpView:
		if key.Matches(msg, m.keys.Back, m.keys.Help) {
			m.mode = FormView
			return m, nil
		}
		var cmd tea.Cmd
		m.helpVP, cmd = m.helpVP.Update(msg)
		return m, cmd

	case PickerView:
		if msg.String() == "esc" {
			m.mode = FormView
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.mode = FormView
			m.fileInput.SetValue(path)
			m.setFocus(FocusName)
			return m, tea.Batch(cmd, m.startLoadCmd(path))
		}
		if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
			m.status = m.styles.Warning.Render(filepath.Base(path) + " is not a spreadsheet")
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.exit()
	case msg.String() == "f1" || (msg.String() == "?" && !m.typing()):
		m.mode = HelpView
		m.refreshHelp()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Browse):
		m.mode = PickerView
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	switch m.focus {
	case FocusFile:
		if key.Matches(msg, m.keys.Enter) {
			return m.loadFromInput()
		}
	case FocusName:
		if key.Matches(msg, m.keys.Enter) {
			m.setFocus(FocusLimit)
			return m, nil
		}
	case FocusLimit:
		if key.Matches(msg, m.keys.Enter) {
			return m.submit()
		}
	case FocusSubmit:
		if key.Matches(msg, m.keys.Enter) || msg.String() == " " {
			return m.submit()
		}
		return m, nil
	case FocusChunks:
		return m.handleListKey(msg)
	}
	return m.updateInputs(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.state.Pending.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()
	default:
		return m, nil
	}
	m.refreshList()
	return m, nil
}

func (m Model) typing() bool {
	return m.focus == FocusFile || m.focus == FocusName || m.focus == FocusLimit
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	cmds = append(cmds, cmd)
	m.nameInput, cmd = m.nameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.limitInput, cmd = m.limitInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) loadFromInput() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.fileInput.Value())
	if path == "" {
		m.status = m.styles.Warning.Render("Enter a file path or press ctrl+o to browse")
		return m, nil
	}
	if !table.Accepts(path) {
		err := &table.ParseError{Path: path, Err: table.ErrUnsupportedFormat}
		m.showAlert(alertError, err.Error())
		return m, nil
	}
	m.setFocus(FocusName)
	return m, m.startLoadCmd(path)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Loading {
		m.status = m.styles.Warning.Render("Still loading the file, try again in a moment")
		return m, nil
	}
	if m.copying {
		m.status = m.styles.Warning.Render("A copy is in progress")
		return m, nil
	}

	criteria, err := chunk.ParseCriteria(m.nameInput.Value(), m.limitInput.Value())
	if err != nil {
		logging.UIDebug("rejected limit %q: %v", m.limitInput.Value(), err)
		m.showAlert(alertError, "Invalid limit: "+err.Error())
		return m, nil
	}

	next, err := m.state.Submit(criteria, m.cols)
	m.state = next
	if err != nil {
		m.showAlert(alertError, err.Error())
		return m, nil
	}

	m.nameInput.SetValue("")
	m.limitInput.SetValue("")
	m.cursor = 0
	if m.state.Pending.Len() == 0 {
		m.status = "No matching emails"
		m.setFocus(FocusFile)
	} else {
		m.status = fmt.Sprintf("%d chunk(s), %s email(s)",
			m.state.Pending.Len(), humanize.Comma(int64(m.state.Pending.Total())))
		m.setFocus(FocusChunks)
	}
	return m, nil
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	if m.copying {
		m.status = m.styles.Warning.Render("A copy is in progress")
		return m, nil
	}
	if m.cursor < 0 || m.cursor >= m.state.Pending.Len() {
		return m, nil
	}
	if m.consumer == nil {
		m.showAlert(alertError, (&chunk.ClipboardError{Index: m.cursor, Err: errNoClipboard}).Error())
		return m, nil
	}
	m.copying = true
	m.status = fmt.Sprintf("Copying chunk %d...", m.cursor+1)
	return m, tea.Batch(copyCmd(m.state, m.consumer, m.cursor), m.spinner.Tick)
}

var errNoClipboard = errors.New("no clipboard available")
