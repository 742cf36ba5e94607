// Package manifest describes a workbook in YAML and builds it with package xl.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"github.com/adnsv/go-xlsxw/xl"
)

var (
	ErrUnknownFormat    = errors.New("unknown format")
	ErrUnknownChartType = errors.New("unknown chart type")
	ErrCellValue        = errors.New("cell must hold at most one value")
)

// Manifest is the root of a workbook description.
type Manifest struct {
	AppName    string            `yaml:"app_name"`
	Properties Properties        `yaml:"properties"`
	Formats    map[string]Format `yaml:"formats"`
	Sheets     []Sheet           `yaml:"sheets"`
}

// Properties are the document properties; see xl.Properties.
type Properties struct {
	Title         string    `yaml:"title"`
	Subject       string    `yaml:"subject"`
	Author        string    `yaml:"author"`
	Company       string    `yaml:"company"`
	HyperlinkBase string    `yaml:"hyperlink_base"`
	Identifier    string    `yaml:"identifier"`
	Created       time.Time `yaml:"created"`
}

// Format is a named style; cells, rows and columns refer to it by name.
type Format struct {
	Bold      bool    `yaml:"bold"`
	Italic    bool    `yaml:"italic"`
	Strike    bool    `yaml:"strike"`
	Underline string  `yaml:"underline"` // single, double, singleAccounting, doubleAccounting
	Size      float64 `yaml:"size"`
	NumFormat string  `yaml:"num_format"`
	Hidden    bool    `yaml:"hidden"`
}

// Sheet describes one worksheet. An empty name selects the next SheetN.
type Sheet struct {
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
	Rows    []Row    `yaml:"rows"`
	Cells   []Cell   `yaml:"cells"`
	Charts  []Chart  `yaml:"charts"`
}

// Column applies width and format to the columns First..Last, given as
// letters. Last defaults to First.
type Column struct {
	First  string  `yaml:"first"`
	Last   string  `yaml:"last"`
	Width  float64 `yaml:"width"`
	Format string  `yaml:"format"`
	Hidden bool    `yaml:"hidden"`
}

// Row numbers are 1-based, as shown by spreadsheet applications.
type Row struct {
	Row    int     `yaml:"row"`
	Height float64 `yaml:"height"`
	Format string  `yaml:"format"`
	Hidden bool    `yaml:"hidden"`
}

// Cell holds at most one value. A cell without a value is written as a
// formatted blank.
type Cell struct {
	Ref      string     `yaml:"ref"`
	String   *string    `yaml:"string"`
	Number   *float64   `yaml:"number"`
	Bool     *bool      `yaml:"bool"`
	DateTime *time.Time `yaml:"datetime"`
	Formula  string     `yaml:"formula"`
	Result   float64    `yaml:"result"`
	Format   string     `yaml:"format"`
}

// Chart is placed with its top left corner at the cell At. Type is one of
// the names accepted by xl.ParseChartType.
type Chart struct {
	Type      string     `yaml:"type"`
	At        string     `yaml:"at"`
	Title     string     `yaml:"title"`
	TitleFont *ChartFont `yaml:"title_font"`
	XAxis     ChartAxis  `yaml:"x_axis"`
	YAxis     ChartAxis  `yaml:"y_axis"`
	Series    []Series   `yaml:"series"`
}

// ChartFont maps to xl.ChartFont; size is in points.
type ChartFont struct {
	Name   string  `yaml:"name"`
	Size   float64 `yaml:"size"`
	Bold   bool    `yaml:"bold"`
	Italic bool    `yaml:"italic"`
}

// ChartAxis holds an axis title and the fonts of the title and tick labels.
type ChartAxis struct {
	Name     string     `yaml:"name"`
	NameFont *ChartFont `yaml:"name_font"`
	NumFont  *ChartFont `yaml:"num_font"`
}

// Series references worksheet ranges. Cache, when given, replaces the value
// cache that would otherwise be filled from the cells.
type Series struct {
	Categories string    `yaml:"categories"`
	Values     string    `yaml:"values"`
	Cache      []float64 `yaml:"cache"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest from YAML. Unknown keys are ignored.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Build creates the workbook described by m. Formats are registered first
// so that every sheet can refer to them.
func (m *Manifest) Build() (*xl.Workbook, error) {
	wb := xl.NewWorkbook()
	wb.AppName = m.AppName
	wb.Properties = xl.Properties(m.Properties)

	formats := map[string]*xl.Format{}
	names := maps.Keys(m.Formats)
	slices.Sort(names)
	for _, name := range names {
		f := m.Formats[name]
		xf := wb.AddFormat()
		xf.Font = xl.Font{
			Size:          f.Size,
			Bold:          f.Bold,
			Italic:        f.Italic,
			Underline:     xl.UnderlineType(f.Underline),
			Strikethrough: f.Strike,
		}
		xf.NumFormat = f.NumFormat
		xf.Hidden = f.Hidden
		formats[name] = xf
	}
	lookup := func(name string) (*xl.Format, error) {
		if name == "" {
			return nil, nil
		}
		f, ok := formats[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		return f, nil
	}

	for _, s := range m.Sheets {
		sh, err := wb.AddSheet(s.Name)
		if err != nil {
			return nil, err
		}
		if err := buildSheet(wb, sh, &s, lookup); err != nil {
			return nil, fmt.Errorf("sheet '%s': %w", sh.Name, err)
		}
	}
	return wb, nil
}

func buildSheet(wb *xl.Workbook, sh *xl.Sheet, s *Sheet, lookup func(string) (*xl.Format, error)) error {
	for _, c := range s.Columns {
		first, err := parseColumn(c.First)
		if err != nil {
			return err
		}
		last := first
		if c.Last != "" {
			if last, err = parseColumn(c.Last); err != nil {
				return err
			}
		}
		f, err := lookup(c.Format)
		if err != nil {
			return err
		}
		if err := sh.SetColumn(first, last, c.Width, f, &xl.RowColOptions{Hidden: c.Hidden}); err != nil {
			return err
		}
	}

	for _, r := range s.Rows {
		f, err := lookup(r.Format)
		if err != nil {
			return err
		}
		if err := sh.SetRow(r.Row-1, r.Height, f, &xl.RowColOptions{Hidden: r.Hidden}); err != nil {
			return err
		}
	}

	for _, c := range s.Cells {
		if err := writeCell(sh, &c, lookup); err != nil {
			return fmt.Errorf("%s: %w", c.Ref, err)
		}
	}

	for _, c := range s.Charts {
		t, ok := xl.ParseChartType(c.Type)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownChartType, c.Type)
		}
		row, col, err := xl.ParseCellRef(c.At)
		if err != nil {
			return err
		}
		ch, err := wb.AddChart(t)
		if err != nil {
			return err
		}
		ch.Title = c.Title
		ch.TitleFont = c.TitleFont.font()
		ch.XAxis = c.XAxis.axis()
		ch.YAxis = c.YAxis.axis()
		for _, ser := range c.Series {
			xs := ch.AddSeries(ser.Categories, ser.Values)
			if len(ser.Cache) > 0 {
				xs.Values.SetDataCache(ser.Cache)
			}
		}
		if err := sh.InsertChart(row, col, ch); err != nil {
			return err
		}
	}
	return nil
}

func (f *ChartFont) font() *xl.ChartFont {
	if f == nil {
		return nil
	}
	return &xl.ChartFont{Name: f.Name, Size: f.Size, Bold: f.Bold, Italic: f.Italic}
}

func (a ChartAxis) axis() xl.ChartAxis {
	return xl.ChartAxis{Name: a.Name, NameFont: a.NameFont.font(), NumFont: a.NumFont.font()}
}

func writeCell(sh *xl.Sheet, c *Cell, lookup func(string) (*xl.Format, error)) error {
	row, col, err := xl.ParseCellRef(c.Ref)
	if err != nil {
		return err
	}
	f, err := lookup(c.Format)
	if err != nil {
		return err
	}

	n := 0
	for _, set := range []bool{c.String != nil, c.Number != nil, c.Bool != nil, c.DateTime != nil, c.Formula != ""} {
		if set {
			n++
		}
	}
	if n > 1 {
		return ErrCellValue
	}

	switch {
	case c.String != nil:
		return sh.WriteString(row, col, *c.String, f)
	case c.Number != nil:
		return sh.WriteNumber(row, col, *c.Number, f)
	case c.Bool != nil:
		return sh.WriteBool(row, col, *c.Bool, f)
	case c.DateTime != nil:
		return sh.WriteDateTime(row, col, *c.DateTime, f)
	case c.Formula != "":
		return sh.WriteFormulaNum(row, col, c.Formula, f, c.Result)
	default:
		return sh.WriteBlank(row, col, f)
	}
}

// parseColumn converts column letters to a 0-based column number.
func parseColumn(s string) (int, error) {
	_, col, err := xl.ParseCellRef(s + "1")
	return col, err
}
