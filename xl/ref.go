package xl

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnNumberAsLetters converts a 1-based column number to its letter name.
func ColumnNumberAsLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+65)) + s
		n = (n - 1) / 26
	}
	return s
}

// CellCoordAsString formats 1-based col and row numbers as an A1 reference.
func CellCoordAsString(col, row int) string {
	if row < 0 {
		panic("invalid row number")
	}
	return ColumnNumberAsLetters(col) + strconv.Itoa(row)
}

// cellRef formats 0-based row and col numbers as an A1 reference.
func cellRef(row, col int) string {
	return CellCoordAsString(col+1, row+1)
}

// ParseCellRef parses an A1 style reference, with optional '$' anchors, into
// 0-based row and col numbers.
func ParseCellRef(s string) (row, col int, err error) {
	i := 0
	if i < len(s) && s[i] == '$' {
		i++
	}
	start := i
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A') + 1
		i++
		if col > MaxCols {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, s)
		}
	}
	if i == start {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	if i < len(s) && s[i] == '$' {
		i++
	}
	r, err := strconv.Atoi(s[i:])
	if err != nil || r < 1 || r > MaxRows || strings.HasPrefix(s[i:], "+") {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return r - 1, col - 1, nil
}

// CellRange is a rectangular block of cells on a named sheet, 0-based and inclusive.
type CellRange struct {
	Sheet    string
	FirstRow int
	FirstCol int
	LastRow  int
	LastCol  int
}

// Len is the number of cells in the range.
func (r CellRange) Len() int {
	return (r.LastRow - r.FirstRow + 1) * (r.LastCol - r.FirstCol + 1)
}

// ParseRange parses references like "Sheet1!$A$1:$A$5", "'My Data'!B2" or
// "A1:C3". A leading '=' is ignored.
func ParseRange(s string) (CellRange, error) {
	var cr CellRange
	s = strings.TrimPrefix(s, "=")
	if i := strings.LastIndexByte(s, '!'); i >= 0 {
		name := s[:i]
		if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
			name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
		}
		if name == "" {
			return cr, fmt.Errorf("%w: %q", ErrInvalidRange, s)
		}
		cr.Sheet = name
		s = s[i+1:]
	}
	first, last, isRange := strings.Cut(s, ":")
	var err error
	cr.FirstRow, cr.FirstCol, err = ParseCellRef(first)
	if err != nil {
		return cr, err
	}
	cr.LastRow, cr.LastCol = cr.FirstRow, cr.FirstCol
	if isRange {
		cr.LastRow, cr.LastCol, err = ParseCellRef(last)
		if err != nil {
			return cr, err
		}
	}
	if cr.LastRow < cr.FirstRow {
		cr.FirstRow, cr.LastRow = cr.LastRow, cr.FirstRow
	}
	if cr.LastCol < cr.FirstCol {
		cr.FirstCol, cr.LastCol = cr.LastCol, cr.FirstCol
	}
	return cr, nil
}
