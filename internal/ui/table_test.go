package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Title", "Status"},
		Rows: [][]string{
			{"task-1", "First item", "Active"},
			{"task-12", "Second item with longer name", "Pending"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 7, widths[0])  // "task-12"
	assert.Equal(t, 28, widths[1]) // "Second item with longer name"
	assert.Equal(t, 7, widths[2])  // "Pending"
}

func TestTable_ColumnWidths_CountsRunes(t *testing.T) {
	table := &Table{Headers: []string{"T"}, Rows: [][]string{{"└ añadir"}}}

	assert.Equal(t, 8, table.ColumnWidths()[0])
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Description"},
		Rows:     [][]string{{"a", "This is a very long description that should be truncated"}},
		MaxWidth: 20,
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 2, widths[0])
	assert.Equal(t, 20, widths[1])
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Title"},
		Rows: [][]string{
			{"task-1", "Alice"},
			{"task-2", "Bob"},
		},
	}

	output := table.Render()

	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Title")
	assert.Contains(t, output, "Alice")
	assert.Contains(t, output, "Bob")
	assert.Contains(t, output, "─")
}

func TestTable_Render_Empty(t *testing.T) {
	table := &Table{}

	assert.Empty(t, table.Render())
}

func TestTable_Render_Truncation(t *testing.T) {
	table := &Table{
		Headers:  []string{"Text"},
		Rows:     [][]string{{"This is way too long"}},
		MaxWidth: 10,
	}

	assert.Contains(t, table.Render(), "…")
}

func TestTable_Render_CellStyle(t *testing.T) {
	var seen []int
	table := &Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x", "y"}},
		CellStyle: func(col int, value string) lipgloss.Style {
			seen = append(seen, col)
			return StyleText
		},
	}

	table.Render()
	assert.Equal(t, []int{0, 1}, seen)
}

func TestFit(t *testing.T) {
	assert.Equal(t, "abc", fit("abc", 3))
	assert.Equal(t, "ab…", fit("abcd", 3))
	assert.Equal(t, "…", fit("abcd", 1))
	assert.Equal(t, "", fit("abcd", 0))
}
