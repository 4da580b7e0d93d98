package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows in a compact fixed-width layout for terminals.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // Max width per column (0 = auto)

	// CellStyle, when set, picks the style of a data cell. The default is StyleText.
	CellStyle func(col int, value string) lipgloss.Style
}

// ColumnWidths calculates column widths from headers and content, in runes.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], t.MaxWidth)
		}
	}
	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	var sb strings.Builder
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var headerCells []string
	for i, h := range t.Headers {
		headerCells = append(headerCells, headerStyle.Render(padRight(h, widths[i])))
	}
	sb.WriteString(" " + strings.Join(headerCells, "  ") + "\n")

	var sepParts []string
	for _, w := range widths {
		sepParts = append(sepParts, StyleSubtle.Render(strings.Repeat("─", w)))
	}
	sb.WriteString(" " + strings.Join(sepParts, "──") + "\n")

	for _, row := range t.Rows {
		var cells []string
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			style := StyleText
			if t.CellStyle != nil {
				style = t.CellStyle(i, val)
			}
			cells = append(cells, style.Render(padRight(fit(val, widths[i]), widths[i])))
		}
		sb.WriteString(" " + strings.Join(cells, "  ") + "\n")
	}

	return sb.String()
}

// fit shortens s to width runes, marking the cut with an ellipsis.
func fit(s string, width int) string {
	r := []rune(s)
	switch {
	case len(r) <= width:
		return s
	case width >= 2:
		return string(r[:width-1]) + "…"
	case width == 1:
		return "…"
	}
	return ""
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
