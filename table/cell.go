package table

import (
	"fmt"
)

// Cell represents a single cell in a table row.
type Cell struct {
	text string
}

// Row represents a single row in a table.
type Row struct {
	cells    []*Cell
	style    *CellStyle
	isHeader bool
}

// AddCell adds a text cell to the row and returns the cell for chaining.
func (r *Row) AddCell(text string) *Cell {
	c := &Cell{text: text}
	r.cells = append(r.cells, c)
	return c
}

// AddCellf adds a formatted text cell to the row.
func (r *Row) AddCellf(format string, args ...any) *Cell {
	return r.AddCell(fmt.Sprintf(format, args...))
}

// SetStyle sets the style for all cells in this row, overriding the
// alternating row colors.
func (r *Row) SetStyle(s CellStyle) *Row {
	r.style = &s
	return r
}
