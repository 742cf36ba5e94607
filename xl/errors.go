package xl

import (
	"errors"
	"fmt"
)

var (
	// ErrRange is returned when a row or column is outside of Excel limits.
	ErrRange = errors.New("row or column out of range")

	// ErrStringLength is returned when a string exceeds the maximum cell string length.
	ErrStringLength = errors.New("string exceeds maximum cell length")

	// ErrStringHash is returned when the shared string table cannot accept another entry.
	ErrStringHash = errors.New("shared string table overflow")

	// ErrWorkbookClosed is returned when a workbook is modified after it was written.
	ErrWorkbookClosed = errors.New("workbook is closed")

	// ErrNumber is returned for NaN and infinite values, which have no
	// representation in a worksheet cell.
	ErrNumber = errors.New("number is NaN or infinite")

	// ErrChartInUse is returned when a chart is inserted a second time.
	ErrChartInUse = errors.New("chart is already inserted")

	ErrDuplicateSheet   = errors.New("duplicate sheet name")
	ErrInvalidSheetName = errors.New("invalid sheet name")
	ErrInvalidRange     = errors.New("invalid range reference")

	ErrInvalidPartName = errors.New("invalid part name")
	ErrDuplicatePart   = errors.New("duplicate part name")
)

// WriteError reports a rejected cell write. The worksheet is left unchanged.
type WriteError struct {
	Sheet string
	Row   int
	Col   int
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sheet '%s' cell (%d,%d): %v", e.Sheet, e.Row, e.Col, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// PartError reports a failure to produce or store one package part.
type PartError struct {
	Part string
	Err  error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("part '%s': %v", e.Part, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}
