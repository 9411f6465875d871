package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column describes one SimpleTable column.
type Column struct {
	Header string
	// Numeric columns are right-aligned.
	Numeric bool
	// MaxWidth truncates longer cells with an ellipsis. Zero means no limit.
	MaxWidth int
}

// SimpleTable renders a static summary: title, header, divider, rows and an
// optional footer set off by a second divider.
type SimpleTable struct {
	Title   string
	Columns []Column
	Rows    [][]string
	Footer  []string
}

// NewSimpleTable creates a table with the given title and columns.
func NewSimpleTable(title string, columns ...Column) *SimpleTable {
	return &SimpleTable{Title: title, Columns: columns}
}

// AddRow adds a row. Cells past the last column are dropped.
func (t *SimpleTable) AddRow(cells ...string) {
	t.Rows = append(t.Rows, t.fit(cells))
}

// SetFooter sets the totals line.
func (t *SimpleTable) SetFooter(cells ...string) {
	t.Footer = t.fit(cells)
}

func (t *SimpleTable) fit(cells []string) []string {
	out := make([]string, len(t.Columns))
	for i := range out {
		if i >= len(cells) {
			break
		}
		out[i] = truncate(cells[i], t.Columns[i].MaxWidth)
	}
	return out
}

func truncate(s string, max int) string {
	if max <= 0 || lipgloss.Width(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// View renders the table. An empty table renders nothing.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Header)
	}
	rows := t.Rows
	if t.Footer != nil {
		rows = append(rows[:len(rows):len(rows)], t.Footer)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		widths[i] += TablePadding
		total += widths[i]
	}

	sep := styles.Muted.Render("|")
	divider := styles.Muted.Render(strings.Repeat("-", total))
	line := func(cells []string, base lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			style := base.Padding(0, 1).Width(widths[i])
			if t.Columns[i].Numeric {
				style = style.Align(lipgloss.Right)
			}
			parts[i] = style.Render(cell)
		}
		return strings.Join(parts, sep)
	}

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title) + "\n")
	}
	sb.WriteString(line(headers, styles.Bold) + "\n")
	sb.WriteString(divider + "\n")
	for _, row := range t.Rows {
		sb.WriteString(line(row, styles.Body) + "\n")
	}
	if t.Footer != nil {
		sb.WriteString(divider + "\n")
		sb.WriteString(line(t.Footer, styles.Bold) + "\n")
	}
	return sb.String()
}
