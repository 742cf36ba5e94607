package xl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Workbook owns every sheet, chart and format, and the shared string table.
// It is not safe for concurrent use.
type Workbook struct {
	AppName    string
	Properties Properties
	Sheets     []*Sheet
	Charts     []*Chart

	sheetMap map[string]*Sheet
	sst      *SharedStrings
	formats  []*Format
	logger   *slog.Logger
	closed   bool
}

// Properties are the document properties written to docProps.
type Properties struct {
	Title         string
	Subject       string
	Author        string
	Company       string
	HyperlinkBase string
	Identifier    string    // dc:identifier, a random UUID when empty
	Created       time.Time // current time when zero
}

// NewWorkbook returns an empty workbook. Sheets are added with AddSheet.
func NewWorkbook() *Workbook {
	return &Workbook{
		sheetMap: map[string]*Sheet{},
		sst:      newSharedStrings(),
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger used for warnings and assembly diagnostics.
// A nil logger restores slog.Default().
func (wb *Workbook) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	wb.logger = l
}

// SharedStrings returns the workbook-wide string table.
func (wb *Workbook) SharedStrings() *SharedStrings {
	return wb.sst
}

// AddSheet appends a worksheet. An empty name selects the next free SheetN name.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if wb.closed {
		return nil, ErrWorkbookClosed
	}
	if name == "" {
		for n := len(wb.Sheets) + 1; ; n++ {
			name = fmt.Sprintf("Sheet%d", n)
			if wb.lookupSheet(name) == nil {
				break
			}
		}
	}
	if wb.lookupSheet(name) != nil {
		return nil, fmt.Errorf("%w '%s'", ErrDuplicateSheet, name)
	}

	if err := validateSheetName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheetName, err)
	}

	sheet := &Sheet{
		workbook: wb,
		Name:     name,
		Columns:  map[int]*Column{},
		index:    len(wb.Sheets),
		dim:      dimensions{empty: true},
	}

	wb.Sheets = append(wb.Sheets, sheet)
	wb.sheetMap[strings.ToLower(name)] = sheet

	return sheet, nil
}

// Sheet returns the sheet with the given name, compared case-insensitively as Excel does.
func (wb *Workbook) Sheet(name string) *Sheet {
	return wb.lookupSheet(name)
}

func (wb *Workbook) lookupSheet(name string) *Sheet {
	return wb.sheetMap[strings.ToLower(name)]
}

// AddChart creates a chart owned by the workbook. It is placed on a sheet
// with Sheet.InsertChart.
func (wb *Workbook) AddChart(t ChartType) (*Chart, error) {
	if wb.closed {
		return nil, ErrWorkbookClosed
	}
	ch := newChart(t, len(wb.Charts)+1)
	wb.Charts = append(wb.Charts, ch)
	return ch, nil
}

// AddFormat registers a new cell format.
func (wb *Workbook) AddFormat() *Format {
	f := &Format{}
	wb.formats = append(wb.formats, f)
	return f
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return errors.New("empty sheet name is not allowed")
	} else if n > 31 {
		return errors.New("the sheet name is too long")
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return errors.New("the first or last character of the sheet name can not be a single quote")
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return errors.New("the sheet can not contain any of the characters :\\/?*[]")
	}
	return nil
}
