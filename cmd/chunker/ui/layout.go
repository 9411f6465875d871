// Package ui layout constants for consistent spacing and dimensions
package ui

const (
	// Content padding inside the widget frame
	ViewportHorizontalPadding = 4
	ViewportVerticalPadding   = 2

	// Chrome around the chunk list
	HeaderHeight    = 2
	FormHeight      = 12
	FooterHeight    = 2
	StatusBarHeight = 1

	TablePadding = 2

	// Responsive breakpoints
	MinimumTerminalWidth = 40
	CompactModeWidth     = 80

	// Chunk cards never grow past this many text lines; the rest scrolls.
	MaxCardLines = 4
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width, never below the minimum.
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - ViewportHorizontalPadding
	if w < MinimumTerminalWidth {
		return MinimumTerminalWidth
	}
	return w
}

// ListHeight returns the rows left for the chunk list below the form.
func (l LayoutConfig) ListHeight() int {
	h := l.TerminalHeight - HeaderHeight - FormHeight - FooterHeight - StatusBarHeight - ViewportVerticalPadding
	if h < 3 {
		return 3
	}
	return h
}
