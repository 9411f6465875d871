package widget

import (
	"strings"

	"chunker/internal/logging"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Excel Email Chunks

Split the email addresses of one person into batches you can paste into a
mail client.

## Steps

1. Enter the path of an **.xlsx** or **.xls** file and press **enter**, or
   press **ctrl+o** to browse.
2. Type the exact value of the **%NAME%** column to match.
3. Type the chunk **limit**, a whole number above zero.
4. Press **enter** on the limit or **ctrl+s** to build the chunks.
5. Press **tab** to reach the list, pick a chunk and press **c**, **y** or
   **enter** to copy it. Copied chunks leave the list.

## Notes

- Only the first sheet is read and row 1 is the header.
- Emails come from the **%EMAIL%** column. Empty cells are skipped.
- Building chunks uses up the loaded rows. Load the file again for another
  name.

## Keys

| Key | Action |
| --- | --- |
| tab / shift+tab | move between fields |
| ctrl+o | file picker |
| ctrl+s | build chunks |
| ↑ ↓ / k j | select chunk |
| c / y / enter | copy chunk |
| ? / f1 | toggle this page |
| esc / ctrl+c | leave |
`

func (m Model) helpText() string {
	r := strings.NewReplacer("%NAME%", m.cols.Name, "%EMAIL%", m.cols.Email)
	return r.Replace(helpMarkdown)
}

// refreshHelp renders the help page for the current width. Rendering errors
// fall back to the raw markdown.
func (m *Model) refreshHelp() {
	text := m.helpText()
	style := "light"
	if m.styles.Theme.IsDark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, m.helpVP.Width-4)),
	)
	if err == nil {
		var out string
		if out, err = renderer.Render(text); err == nil {
			text = out
		}
	}
	if err != nil {
		logging.UIDebug("help render failed: %v", err)
	}
	m.helpVP.SetContent(text)
	m.helpVP.GotoTop()
}
