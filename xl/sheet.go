package xl

import (
	"math"
	"slices"
	"time"
	"unicode/utf8"
)

// Excel limits.
const (
	MaxRows         = 1_048_576
	MaxCols         = 16_384
	MaxStringLength = 32_767
)

// Sheet stores cells sparsely. Rows are kept in ascending row order and cells
// in ascending column order, so the serializer never sorts. Writes in
// ascending order append in O(1); out-of-order writes pay O(n) to insert.
type Sheet struct {
	Name    string
	Columns map[int]*Column // 0-based

	workbook *Workbook
	index    int
	rows     []*Row
	dim      dimensions
	charts   []*chartAnchor
}

// Column holds the width, default format and visibility of a worksheet column.
// A zero Width keeps the default width.
type Column struct {
	Width  float64
	Format *Format
	Hidden bool
}

type dimensions struct {
	minRow, maxRow int
	minCol, maxCol int
	empty          bool
}

// Dimensions returns the bounds of the populated area, 0-based and inclusive.
// ok is false when no cell was ever written.
func (s *Sheet) Dimensions() (minRow, minCol, maxRow, maxCol int, ok bool) {
	if s.dim.empty {
		return 0, 0, 0, 0, false
	}
	return s.dim.minRow, s.dim.minCol, s.dim.maxRow, s.dim.maxCol, true
}

func (d *dimensions) extend(row, col int) {
	if d.empty {
		d.minRow, d.maxRow = row, row
		d.minCol, d.maxCol = col, col
		d.empty = false
		return
	}
	d.minRow = min(d.minRow, row)
	d.maxRow = max(d.maxRow, row)
	d.minCol = min(d.minCol, col)
	d.maxCol = max(d.maxCol, col)
}

// Rows returns the populated rows in ascending order.
func (s *Sheet) Rows() []*Row { return s.rows }

// Row returns the row at the given 0-based number, or nil if it was never populated.
func (s *Sheet) Row(row int) *Row {
	i, found := slices.BinarySearchFunc(s.rows, row, func(r *Row, row int) int {
		return r.rowNumber - row
	})
	if !found {
		return nil
	}
	return s.rows[i]
}

// Cell returns the cell at (row, col), or nil if it was never written.
func (s *Sheet) Cell(row, col int) *Cell {
	r := s.Row(row)
	if r == nil {
		return nil
	}
	return r.find(col)
}

// row returns the row at the given number, inserting it in row order when absent.
func (s *Sheet) row(row int) *Row {
	n := len(s.rows)
	if n == 0 || s.rows[n-1].rowNumber < row {
		r := &Row{rowNumber: row}
		s.rows = append(s.rows, r)
		return r
	}
	i, found := slices.BinarySearchFunc(s.rows, row, func(r *Row, row int) int {
		return r.rowNumber - row
	})
	if found {
		return s.rows[i]
	}
	r := &Row{rowNumber: row}
	s.rows = slices.Insert(s.rows, i, r)
	return r
}

func (s *Sheet) check(row, col int) error {
	if s.workbook.closed {
		return &WriteError{Sheet: s.Name, Row: row, Col: col, Err: ErrWorkbookClosed}
	}
	if row < 0 || row >= MaxRows || col < 0 || col >= MaxCols {
		return &WriteError{Sheet: s.Name, Row: row, Col: col, Err: ErrRange}
	}
	return nil
}

func (s *Sheet) checkFinite(row, col int, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &WriteError{Sheet: s.Name, Row: row, Col: col, Err: ErrNumber}
	}
	return nil
}

func (s *Sheet) store(row, col int) *Cell {
	s.dim.extend(row, col)
	return s.row(row).cell(col)
}

// WriteNumber writes a numeric value. NaN and infinities are rejected with
// ErrNumber.
func (s *Sheet) WriteNumber(row, col int, v float64, format *Format) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	if err := s.checkFinite(row, col, v); err != nil {
		return err
	}
	c := s.store(row, col)
	c.set(CellTypeNumber, format)
	c.number = v
	return nil
}

// WriteString stores v in the shared string table and references it from the cell.
func (s *Sheet) WriteString(row, col int, v string, format *Format) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	if utf8.RuneCountInString(v) > MaxStringLength {
		return &WriteError{Sheet: s.Name, Row: row, Col: col, Err: ErrStringLength}
	}
	id, err := s.workbook.sst.Insert(v)
	if err != nil {
		return &WriteError{Sheet: s.Name, Row: row, Col: col, Err: err}
	}
	c := s.store(row, col)
	c.set(CellTypeSharedString, format)
	c.stringID = id
	return nil
}

// WriteFormula writes a formula with a 0 result; the consuming application
// recalculates it on open.
func (s *Sheet) WriteFormula(row, col int, formula string, format *Format) error {
	return s.WriteFormulaNum(row, col, formula, format, 0)
}

// WriteFormulaNum writes a formula with a caller supplied result.
func (s *Sheet) WriteFormulaNum(row, col int, formula string, format *Format, result float64) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	if err := s.checkFinite(row, col, result); err != nil {
		return err
	}
	if len(formula) > 0 && formula[0] == '=' {
		formula = formula[1:]
	}
	c := s.store(row, col)
	c.set(CellTypeFormula, format)
	c.formula = formula
	c.number = result
	return nil
}

// WriteBlank writes a formatted cell without a value. Excel does not store
// empty cells without a format, so a nil format is a no-op.
func (s *Sheet) WriteBlank(row, col int, format *Format) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	if format == nil {
		return nil
	}
	c := s.store(row, col)
	c.set(CellTypeBlank, format)
	return nil
}

// WriteBool writes a boolean, stored as 1 or 0.
func (s *Sheet) WriteBool(row, col int, v bool, format *Format) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	c := s.store(row, col)
	c.set(CellTypeBool, format)
	if v {
		c.number = 1
	}
	return nil
}

// WriteDateTime writes t as an Excel serial number. Without a date number
// format the cell displays as a plain number.
func (s *Sheet) WriteDateTime(row, col int, t time.Time, format *Format) error {
	return s.WriteNumber(row, col, DateTimeToSerial(t), format)
}

// SetRow sets the height, default format and visibility of a row.
// A height of 0 keeps the default height.
func (s *Sheet) SetRow(row int, height float64, format *Format, opts *RowColOptions) error {
	if err := s.check(row, 0); err != nil {
		return err
	}
	r := s.row(row)
	r.Height = height
	r.Format = format
	r.Hidden = opts != nil && opts.Hidden
	r.changed = true
	return nil
}

// SetColumn sets the width, default format and visibility of the columns
// first..last inclusive. A width of 0 keeps the default width.
func (s *Sheet) SetColumn(first, last int, width float64, format *Format, opts *RowColOptions) error {
	if first > last {
		first, last = last, first
	}
	if err := s.check(0, first); err != nil {
		return err
	}
	if err := s.check(0, last); err != nil {
		return err
	}
	for n := first; n <= last; n++ {
		s.Columns[n] = &Column{
			Width:  width,
			Format: format,
			Hidden: opts != nil && opts.Hidden,
		}
	}
	return nil
}

// SetColumnWidth sets the width of a single column. A width of 0 or less
// removes the override.
func (s *Sheet) SetColumnWidth(col int, w float64) {
	if col < 0 || col >= MaxCols {
		return
	}
	if w <= 0.0 {
		delete(s.Columns, col)
		return
	}
	c, exists := s.Columns[col]
	if !exists {
		c = &Column{}
		s.Columns[col] = c
	}
	c.Width = w
}

// InsertChart places chart on the sheet with its top left corner at (row, col).
// A chart belongs to one anchor only; inserting it again fails with
// ErrChartInUse.
func (s *Sheet) InsertChart(row, col int, chart *Chart) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	if chart.inserted {
		return &WriteError{Sheet: s.Name, Row: row, Col: col, Err: ErrChartInUse}
	}
	s.charts = append(s.charts, &chartAnchor{row: row, col: col, chart: chart})
	chart.inserted = true
	return nil
}
