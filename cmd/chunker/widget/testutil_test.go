package widget

import (
	"context"
	"errors"
	"sync"
	"testing"

	"chunker/internal/clipboard"
	"chunker/internal/config"
	"chunker/internal/table"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeLoader returns canned rows per path.
type fakeLoader struct {
	mu    sync.Mutex
	rows  map[string][]table.Row
	err   error
	calls []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{rows: make(map[string][]table.Row)}
}

func (f *fakeLoader) Load(_ context.Context, path string) ([]table.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[path], nil
}

func (f *fakeLoader) set(path string, rows []table.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[path] = rows
}

func sampleRows() []table.Row {
	return []table.Row{
		{"NAME": "A", "EMAILS": "a1"},
		{"NAME": "B", "EMAILS": "b1"},
		{"NAME": "A", "EMAILS": "a2"},
		{"NAME": "A", "EMAILS": ""},
		{"NAME": "A", "EMAILS": "a3"},
	}
}

type testEnv struct {
	loader *fakeLoader
	clip   *clipboard.Memory
	exits  int
}

type testOption func(*Options)

func withFile(path string) testOption {
	return func(o *Options) { o.File = path }
}

func withConfig(cfg *config.Config) testOption {
	return func(o *Options) { o.Config = cfg }
}

func withWatch() testOption {
	return func(o *Options) { o.Watch = true }
}

// newTestModel builds a widget backed by a fake loader and an in-memory
// clipboard.
func newTestModel(t *testing.T, opts ...testOption) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{loader: newFakeLoader(), clip: &clipboard.Memory{}}
	cfg := config.DefaultConfig()
	cfg.UI.Theme = config.ThemeLight
	o := Options{
		Config:    cfg,
		Loader:    env.loader,
		Clipboard: env.clip,
		OnExit:    func() { env.exits++ },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return New(context.Background(), o), env
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return result, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// runLoad completes the in-flight load synchronously.
func runLoad(t *testing.T, m Model, path string) Model {
	t.Helper()
	msg := loadCmd(m.ctx, m.loader, m.loadSeq, path, false)()
	m, _ = update(t, m, msg)
	return m
}

// runCopy completes the in-flight copy of the selected chunk synchronously.
func runCopy(t *testing.T, m Model) Model {
	t.Helper()
	if !m.copying {
		t.Fatal("no copy in flight")
	}
	msg := copyCmd(m.state, m.consumer, m.cursor)()
	m, _ = update(t, m, msg)
	return m
}

// loaded returns a model that has loaded sampleRows from path.
func loaded(t *testing.T, path string, opts ...testOption) (Model, *testEnv) {
	t.Helper()
	m, env := newTestModel(t, opts...)
	env.loader.set(path, sampleRows())
	m.fileInput.SetValue(path)
	m, _ = update(t, m, keyMsg("enter"))
	if !m.state.Loading {
		t.Fatal("expected load to start")
	}
	return runLoad(t, m, path), env
}

// submitted loads sampleRows and submits name "A" with limit 2.
func submitted(t *testing.T) (Model, *testEnv) {
	t.Helper()
	m, env := loaded(t, "contacts.xlsx")
	m = typeText(t, m, "A")
	m, _ = update(t, m, keyMsg("enter"))
	m = typeText(t, m, "2")
	m, _ = update(t, m, keyMsg("enter"))
	return m, env
}

var errClipboardDown = errors.New("clipboard down")
