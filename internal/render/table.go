package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows in left-aligned columns separated by two spaces.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers. An empty
// header list renders rows without a header line.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Short rows are padded with empty cells.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render produces the aligned table. Column widths follow the widest
// cell; the last column is never padded so lines carry no trailing
// whitespace.
func (t *Table) Render() string {
	cols := len(t.headers)
	for _, row := range t.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	var b strings.Builder
	writeRow := func(row []string, styled bool) {
		var line strings.Builder
		for i := 0; i < cols; i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if styled && cell != "" {
				cell = HeaderStyle.Render(cell)
			}
			line.WriteString(cell)
			if i < cols-1 {
				line.WriteString(strings.Repeat(" ", pad+2))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}

	if len(t.headers) > 0 {
		writeRow(t.headers, true)
	}
	for _, row := range t.rows {
		writeRow(row, false)
	}
	return b.String()
}
