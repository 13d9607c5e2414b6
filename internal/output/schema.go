package output

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// Table prints a bordered table with a title line above it.
func Table(w io.Writer, title string, headers []string, rows [][]string) error {
	titleStyle := lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	cw := newWriter(w)
	if title != "" {
		if _, err := fmt.Fprintln(cw, titleStyle.Render(title)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(cw, t.String())
	return err
}

// Muted prints a dimmed line, used for hints and empty states.
func Muted(w io.Writer, format string, args ...any) error {
	style := lipgloss.NewStyle().Foreground(colorMuted)
	_, err := fmt.Fprintln(newWriter(w), style.Render(fmt.Sprintf(format, args...)))
	return err
}

// Schema prints the field table of a template set. Each row holds the
// variable, the generated Go field and the constructor parameter.
func Schema(w io.Writer, name string, rows [][]string) error {
	if len(rows) == 0 {
		return Muted(w, "%s has no fields", name)
	}
	return Table(w, name, []string{"Variable", "Field", "Parameter"}, rows)
}
