// Package clipboard adapts the host clipboard to chunk.ClipboardWriter.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (for example a headless Linux box without xclip, xsel or wl-copy).
var ErrUnsupported = errors.New("clipboard not supported on this system")

// Writer is anything that can receive clipboard text.
type Writer interface {
	WriteAll(text string) error
}

// writeAll is a package-level variable to allow mocking in tests.
var writeAll = clipboard.WriteAll

// System writes to the host clipboard.
type System struct{}

// WriteAll copies text to the host clipboard.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Memory keeps clipboard writes in memory. Set Err to make writes fail.
type Memory struct {
	mu     sync.Mutex
	writes []string
	Err    error
}

// WriteAll records text, or returns m.Err when set.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.writes = append(m.writes, text)
	return nil
}

// Last returns the most recent write.
func (m *Memory) Last() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return "", false
	}
	return m.writes[len(m.writes)-1], true
}

// Writes returns every recorded write in order.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// New returns the writer for a backend name: "system" (default) or "memory".
func New(backend string) (Writer, error) {
	switch backend {
	case "", "system":
		return System{}, nil
	case "memory":
		return &Memory{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}
