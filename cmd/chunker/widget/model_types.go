// Package widget is the interactive chunker screen: pick a spreadsheet, enter
// a name and a chunk limit, then copy the resulting email chunks one by one.
package widget

import (
	"context"

	"chunker/cmd/chunker/ui"
	"chunker/internal/chunk"
	"chunker/internal/config"
	"chunker/internal/session"
	"chunker/internal/table"
	"chunker/internal/watch"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// RowLoader turns a spreadsheet path into rows.
type RowLoader interface {
	Load(ctx context.Context, path string) ([]table.Row, error)
}

// Options configures a new widget.
type Options struct {
	Config    *config.Config
	Loader    RowLoader
	Clipboard chunk.ClipboardWriter

	// Pre-filled form values. A non-empty File starts loading immediately.
	File  string
	Name  string
	Limit string

	// Watch reloads the loaded file when it changes on disk.
	Watch bool

	// OnExit runs once when the user leaves the widget.
	OnExit func()
}

// ViewMode determines which screen is shown.
type ViewMode int

const (
	FormView ViewMode = iota
	PickerView
	HelpView
)

// Focus is the form element receiving keys.
type Focus int

const (
	FocusFile Focus = iota
	FocusName
	FocusLimit
	FocusSubmit
	FocusChunks
)

// alertKind selects alert styling.
type alertKind int

const (
	alertInfo alertKind = iota
	alertError
)

// alert is a modal notice. While one is open every key except dismiss and
// ctrl+c is ignored.
type alert struct {
	kind alertKind
	text string
}

// Model is the bubbletea model for the widget.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg      *config.Config
	cols     chunk.Columns
	loader   RowLoader
	consumer *chunk.Consumer
	onExit   func()

	// UI components
	styles     ui.Styles
	layout     ui.LayoutConfig
	keys       keyMap
	help       help.Model
	fileInput  textinput.Model
	nameInput  textinput.Model
	limitInput textinput.Model
	spinner    spinner.Model
	picker     filepicker.Model
	listVP     viewport.Model
	helpVP     viewport.Model
	cards      *ui.RenderCache

	// State
	mode     ViewMode
	focus    Focus
	state    session.State
	cursor   int
	copying  bool
	alert    *alert
	status   string
	fileSize int64
	loadSeq  int
	exited   bool

	// Watch mode
	watchEnabled bool
	watcher      *watch.FileWatcher
}
