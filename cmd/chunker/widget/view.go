package widget

import (
	"fmt"
	"strings"

	"chunker/cmd/chunker/ui"
	"chunker/internal/chunk"

	"github.com/charmbracelet/lipgloss"
)

const title = "Excel Email Chunks"

// View renders the current screen.
func (m Model) View() string {
	if m.exited {
		return ""
	}

	header := m.styles.Header.Render(title)
	if n := m.state.Pending.Len(); n > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, " ", m.styles.Badge.Render(fmt.Sprintf("%d left", n)))
	}
	footer := m.styles.Footer.Render(m.help.ShortHelpView(m.shortHelp()))

	var body string
	switch m.mode {
	case HelpView:
		body = m.helpVP.View()
	case PickerView:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Subtitle.Render("Select a spreadsheet (.xlsx, .xls)"),
			m.picker.View(),
		)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderForm(),
			m.renderStatus(),
			m.styles.RenderDivider(m.layout.ContentWidth()),
			m.listVP.View(),
		)
	}

	if m.alert != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderAlert())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.Content.Render(body),
		footer,
	)
}

func (m Model) renderForm() string {
	field := func(label string, f Focus, view string) string {
		style := m.styles.Label
		if m.focus == f {
			style = m.styles.FocusedLabel
		}
		return style.Width(10).Render(label) + view
	}

	button := m.styles.Button.Render("Submit")
	if m.focus == FocusSubmit {
		button = m.styles.ButtonActive.Render("Submit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		field("File", FocusFile, m.fileInput.View()),
		field("Name", FocusName, m.nameInput.View()),
		field("Limit", FocusLimit, m.limitInput.View()),
		"",
		button,
	)
}

func (m Model) renderStatus() string {
	switch {
	case m.state.Loading:
		return m.spinner.View() + " " + m.styles.Muted.Render(m.status)
	case m.copying:
		return m.spinner.View() + " " + m.styles.Muted.Render(m.status)
	case m.status != "":
		return m.styles.Info.Render(m.status)
	}
	return m.styles.Muted.Render("Choose a file to begin")
}

func (m Model) renderAlert() string {
	style := m.styles.Alert
	label := m.styles.Success.Render("Done")
	if m.alert.kind == alertError {
		label = m.styles.Error.Render("Error")
	}
	text := lipgloss.NewStyle().Width(max(20, m.layout.ContentWidth()-6)).Render(m.alert.text)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		label,
		text,
		m.styles.Muted.Render("enter/esc to dismiss"),
	))
}

// renderChunks builds the chunk cards and returns the line range of the
// selected card so the viewport can keep it in view.
func (m Model) renderChunks() (content string, selTop, selBottom int) {
	chunks := m.state.Pending.Chunks()
	if len(chunks) == 0 {
		return m.styles.Muted.Render("No chunks yet"), 0, 0
	}

	width := max(ui.MinimumTerminalWidth, m.layout.ContentWidth()) - 4
	delim := m.delimiter()

	var sb strings.Builder
	line := 0
	for i, c := range chunks {
		selected := i == m.cursor && m.focus == FocusChunks
		joined := c.Join(delim)
		card := m.cards.GetOrCompute(ui.ComputeKey(i+1, joined, width, selected), func() string {
			style := m.styles.Card
			if selected {
				style = m.styles.SelectedCard
			}
			heading := m.styles.Bold.Render(fmt.Sprintf("Chunk %d, length: %d", i+1, c.Len()))
			text := lipgloss.NewStyle().Width(width).MaxHeight(ui.MaxCardLines).Render(joined)
			return style.Render(lipgloss.JoinVertical(lipgloss.Left, heading, text))
		})

		h := lipgloss.Height(card)
		if i == m.cursor {
			selTop, selBottom = line, line+h
		}
		sb.WriteString(card)
		sb.WriteString("\n")
		line += h
	}
	return sb.String(), selTop, selBottom
}

func (m *Model) refreshList() {
	content, top, bottom := m.renderChunks()
	m.listVP.SetContent(content)
	if bottom > m.listVP.YOffset+m.listVP.Height {
		m.listVP.SetYOffset(bottom - m.listVP.Height)
	}
	if top < m.listVP.YOffset {
		m.listVP.SetYOffset(top)
	}
}

func (m Model) delimiter() string {
	if m.consumer != nil && m.consumer.Delimiter != "" {
		return m.consumer.Delimiter
	}
	if m.cfg.Chunk.Delimiter != "" {
		return m.cfg.Chunk.Delimiter
	}
	return chunk.DefaultDelimiter
}
