package xl

import "slices"

// Row is a populated worksheet row with its optional properties.
type Row struct {
	Height float64 // when Height=0, use default row height
	Format *Format
	Hidden bool

	rowNumber int // 0-based
	cells     []*Cell
	changed   bool // set by SetRow, forces the row to be emitted
}

// RowColOptions carries the optional row and column properties.
type RowColOptions struct {
	Hidden bool
}

// Number returns the 0-based row number.
func (r *Row) Number() int { return r.rowNumber }

// Cells returns the populated cells in ascending column order.
func (r *Row) Cells() []*Cell { return r.cells }

// cell returns the cell at col, inserting it in column order when absent.
// Appending past the last column is the fast path.
func (r *Row) cell(col int) *Cell {
	n := len(r.cells)
	if n == 0 || r.cells[n-1].columnNumber < col {
		c := &Cell{columnNumber: col}
		r.cells = append(r.cells, c)
		return c
	}
	i, found := slices.BinarySearchFunc(r.cells, col, func(c *Cell, col int) int {
		return c.columnNumber - col
	})
	if found {
		return r.cells[i]
	}
	c := &Cell{columnNumber: col}
	r.cells = slices.Insert(r.cells, i, c)
	return c
}

func (r *Row) find(col int) *Cell {
	i, found := slices.BinarySearchFunc(r.cells, col, func(c *Cell, col int) int {
		return c.columnNumber - col
	})
	if !found {
		return nil
	}
	return r.cells[i]
}
