package xl

import (
	"math"
	"strconv"
	"time"
)

// Cell is one populated worksheet cell. Its value is interpreted according to
// Type.
type Cell struct {
	columnNumber int // 0-based
	typ          CellType
	number       float64
	stringID     int
	formula      string
	format       *Format
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeNumber
	CellTypeSharedString
	CellTypeFormula
	CellTypeBlank
	CellTypeBool
)

func (t CellType) String() string {
	switch t {
	case CellTypeNumber:
		return "number"
	case CellTypeSharedString:
		return "string"
	case CellTypeFormula:
		return "formula"
	case CellTypeBlank:
		return "blank"
	case CellTypeBool:
		return "bool"
	}
	return "unset"
}

// Column returns the 0-based column number of the cell.
func (c *Cell) Column() int { return c.columnNumber }

// Type returns the value type of the cell.
func (c *Cell) Type() CellType { return c.typ }

// Number returns the numeric value of a number or bool cell, or the cached
// result of a formula cell.
func (c *Cell) Number() float64 { return c.number }

// StringID returns the shared string id of a string cell.
func (c *Cell) StringID() int { return c.stringID }

// Formula returns the formula text without the leading '='.
func (c *Cell) Formula() string { return c.formula }

// Format returns the cell format, or nil for the default format.
func (c *Cell) Format() *Format { return c.format }

func (c *Cell) set(typ CellType, format *Format) {
	c.typ = typ
	c.format = format
	c.number = 0
	c.stringID = 0
	c.formula = ""
}

// formatNumber renders v with the shortest representation that round-trips,
// which never exceeds 17 significant digits. Exponent notation is kept for
// magnitudes that would otherwise need long runs of zeros. Negative zero is
// written as 0.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e-4 && a < 1e16 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// DateTimeToSerial converts t to an Excel serial date in the 1900 date system.
// The wall clock of t is used as-is; its location is ignored.
func DateTimeToSerial(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	secs := wall.Unix() - excelEpoch.Unix()
	days := secs / 86400
	if secs%86400 < 0 {
		days--
	}
	frac := float64(secs-days*86400) + float64(wall.Nanosecond())/1e9
	serial := float64(days) + frac/86400
	// Excel counts a non-existent 1900-02-29, so earlier serials are one less.
	if serial < 61 {
		serial--
	}
	return serial
}
