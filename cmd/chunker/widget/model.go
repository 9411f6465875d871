package widget

import (
	"context"
	"os"
	"strconv"

	"chunker/cmd/chunker/ui"
	"chunker/internal/chunk"
	"chunker/internal/config"
	"chunker/internal/logging"
	"chunker/internal/session"
	"chunker/internal/table"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// New builds the widget model. Missing options fall back to defaults:
// config.DefaultConfig, a table.Loader and no clipboard (copies fail).
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	loader := opts.Loader
	if loader == nil {
		loader = &table.Loader{MaxFileSize: cfg.Loader.MaxFileSize}
	}

	var consumer *chunk.Consumer
	if opts.Clipboard != nil {
		consumer = &chunk.Consumer{Writer: opts.Clipboard, Delimiter: cfg.Chunk.Delimiter}
	}

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))

	fileInput := textinput.New()
	fileInput.Placeholder = "path/to/contacts.xlsx"
	fileInput.Prompt = ""
	fileInput.SetValue(opts.File)

	nameInput := textinput.New()
	nameInput.Placeholder = "exact name"
	nameInput.Prompt = ""
	nameInput.SetValue(opts.Name)

	limitInput := textinput.New()
	limitInput.Placeholder = "e.g. 50"
	limitInput.Prompt = ""
	limitInput.CharLimit = 9
	limit := opts.Limit
	if limit == "" && cfg.Chunk.DefaultLimit > 0 {
		limit = strconv.Itoa(cfg.Chunk.DefaultLimit)
	}
	limitInput.SetValue(limit)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	picker := filepicker.New()
	picker.AllowedTypes = table.Extensions()
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	h := help.New()
	h.Styles.ShortKey = styles.Bold
	h.Styles.ShortDesc = styles.Muted

	state := session.New()
	logging.SetSessionID(state.ID)
	logging.UI("widget started")

	m := Model{
		ctx:          ctx,
		cancel:       cancel,
		cfg:          cfg,
		cols:         chunk.Columns{Name: cfg.Columns.Name, Email: cfg.Columns.Email},
		loader:       loader,
		consumer:     consumer,
		onExit:       opts.OnExit,
		styles:       styles,
		layout:       ui.NewLayoutConfig(80, 24),
		keys:         defaultKeyMap(),
		help:         h,
		fileInput:    fileInput,
		nameInput:    nameInput,
		limitInput:   limitInput,
		spinner:      sp,
		picker:       picker,
		listVP:       viewport.New(76, 6),
		helpVP:       viewport.New(76, 20),
		cards:        ui.NewRenderCache(256),
		state:        state,
		watchEnabled: opts.Watch || cfg.Watch.Enabled,
	}
	m.setFocus(FocusFile)
	if opts.File != "" {
		// Init cannot modify the model, so the first load is armed here.
		m.loadSeq++
		m.state = m.state.BeginLoad(opts.File)
		m.status = "Loading " + opts.File + "..."
		m.setFocus(FocusName)
	}
	if cfg.UI.ShowHelpOnStart {
		m.mode = HelpView
		m.refreshHelp()
	}
	m.refreshList()
	return m
}

// Init starts cursor blinking and, when a file was pre-filled, loads it.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.state.Loading {
		cmds = append(cmds, loadCmd(m.ctx, m.loader, m.loadSeq, m.fileInput.Value(), false), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// State returns the current session snapshot.
func (m Model) State() session.State { return m.state }

// Exited reports whether the user has left the widget.
func (m Model) Exited() bool { return m.exited }

func (m *Model) setFocus(f Focus) {
	if f == FocusChunks && m.state.Pending.Len() == 0 {
		f = FocusFile
	}
	m.focus = f
	m.fileInput.Blur()
	m.nameInput.Blur()
	m.limitInput.Blur()
	switch f {
	case FocusFile:
		m.fileInput.Focus()
	case FocusName:
		m.nameInput.Focus()
	case FocusLimit:
		m.limitInput.Focus()
	}
	m.refreshList()
}

func (m *Model) cycleFocus(delta int) {
	stops := []Focus{FocusFile, FocusName, FocusLimit, FocusSubmit}
	if m.state.Pending.Len() > 0 {
		stops = append(stops, FocusChunks)
	}
	idx := 0
	for i, f := range stops {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(stops)) % len(stops)
	m.setFocus(stops[idx])
}

func (m *Model) showAlert(kind alertKind, text string) {
	m.alert = &alert{kind: kind, text: text}
}

// exit stops background work, runs OnExit once and quits the program.
func (m *Model) exit() tea.Cmd {
	if m.exited {
		return tea.Quit
	}
	m.exited = true
	m.cancel()
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	logging.UI("widget exited with %d pending chunks", m.state.Pending.Len())
	if m.onExit != nil {
		m.onExit()
	}
	return tea.Quit
}
