package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notesync-web/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	numberStyle = lipgloss.NewStyle().Faint(true)
	insertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Strikethrough(true)
	emptyStyle  = lipgloss.NewStyle().Italic(true).Faint(true)
)

// RenderTerminal is the terminal counterpart of RenderHTML. Colours are
// dropped automatically when the output is not a terminal.
func RenderTerminal(lines []domain.LineGroup, opts RenderOptions) string {
	visible := opts.filter(lines)

	var b strings.Builder
	b.WriteString(headerStyle.Render(opts.Header))
	b.WriteByte('\n')

	if len(visible) == 0 {
		b.WriteString(emptyStyle.Render(opts.placeholder()))
		b.WriteByte('\n')
		return b.String()
	}

	for _, line := range visible {
		b.WriteString(numberStyle.Render(fmt.Sprintf("%5s │", line.Number)))
		b.WriteByte(' ')
		for _, seg := range line.Segments {
			switch seg.Type {
			case domain.DiffInsert:
				b.WriteString(insertStyle.Render(seg.Text))
			case domain.DiffDelete:
				b.WriteString(deleteStyle.Render(seg.Text))
			default:
				b.WriteString(seg.Text)
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
