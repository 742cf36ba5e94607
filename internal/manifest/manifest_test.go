package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/adnsv/go-xlsxw/xl"
)

const sample = `
app_name: xlgen
properties:
  title: Quarterly
  author: Finance
  created: 2024-01-02T03:04:05Z
formats:
  header: {bold: true, size: 12}
  money: {num_format: "#,##0.00"}
  date: {num_format: "yyyy-mm-dd"}
sheets:
  - name: Sales
    columns:
      - {first: A, width: 14, format: header}
      - {first: B, last: C, width: 10, format: money}
    rows:
      - {row: 1, height: 20, format: header}
    cells:
      - {ref: A1, string: Region}
      - {ref: B1, string: Amount}
      - {ref: A2, string: North}
      - {ref: B2, number: 10.5}
      - {ref: A3, string: South}
      - {ref: B3, number: 20}
      - {ref: B4, formula: "=SUM(B2:B3)", result: 30.5}
      - {ref: C2, bool: true}
      - {ref: C3, datetime: 2005-02-23T00:00:00Z, format: date}
      - {ref: C4, format: money}
    charts:
      - type: column_stacked
        at: E2
        title: Totals
        title_font: {name: Calibri, size: 14, italic: true}
        y_axis: {name: Amount, num_font: {size: 9, bold: true}}
        series:
          - {categories: "Sales!$A$2:$A$3", values: "Sales!$B$2:$B$3"}
  - name: ""
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "xlgen", m.AppName)
	assert.Equal(t, 2024, m.Properties.Created.Year())
	require.Len(t, m.Sheets, 2)
	assert.Len(t, m.Formats, 3)

	sales := m.Sheets[0]
	require.Len(t, sales.Cells, 10)
	require.NotNil(t, sales.Cells[3].Number)
	assert.Equal(t, 10.5, *sales.Cells[3].Number)
	require.NotNil(t, sales.Cells[8].DateTime)
	assert.Equal(t, 2005, sales.Cells[8].DateTime.Year())
	require.Len(t, sales.Charts, 1)
	assert.Equal(t, "E2", sales.Charts[0].At)
}

func TestBuild(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)
	wb, err := m.Build()
	require.NoError(t, err)

	require.Len(t, wb.Sheets, 2)
	assert.Equal(t, "Sheet2", wb.Sheets[1].Name)
	assert.Equal(t, "Quarterly", wb.Properties.Title)

	sh := wb.Sheet("Sales")
	require.NotNil(t, sh)
	assert.Equal(t, xl.CellTypeFormula, sh.Cell(3, 1).Type())
	assert.Equal(t, "SUM(B2:B3)", sh.Cell(3, 1).Formula())
	assert.Equal(t, 38406.0, sh.Cell(2, 2).Number())
	assert.Equal(t, xl.CellTypeBlank, sh.Cell(3, 2).Type())
	assert.Len(t, sh.Columns, 3)
	assert.Equal(t, 20.0, sh.Row(0).Height)

	require.Len(t, wb.Charts, 1)
	ch := wb.Charts[0]
	assert.Equal(t, xl.ChartColumnStacked, ch.Type)
	assert.Equal(t, "Totals", ch.Title)
	assert.Equal(t, &xl.ChartFont{Name: "Calibri", Size: 14, Italic: true}, ch.TitleFont)
	assert.Equal(t, "Amount", ch.YAxis.Name)
	assert.Nil(t, ch.YAxis.NameFont)
	assert.Equal(t, &xl.ChartFont{Size: 9, Bold: true}, ch.YAxis.NumFont)
	assert.Empty(t, ch.XAxis.Name)

	bb := bytes.Buffer{}
	require.NoError(t, wb.WriteZip(&bb, xl.Options{}))
	f, err := excelize.OpenReader(bytes.NewReader(bb.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sales", "Sheet2"}, f.GetSheetList())
	v, err := f.GetCellValue("Sales", "A3")
	require.NoError(t, err)
	assert.Equal(t, "South", v)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"unknown format", "sheets: [{cells: [{ref: A1, number: 1, format: nope}]}]", ErrUnknownFormat},
		{"two values", "sheets: [{cells: [{ref: A1, number: 1, string: x}]}]", ErrCellValue},
		{"bad ref", "sheets: [{cells: [{ref: 1A, number: 1}]}]", xl.ErrInvalidRange},
		{"chart type", "sheets: [{charts: [{type: pie, at: A1}]}]", ErrUnknownChartType},
		{"duplicate sheet", "sheets: [{name: A}, {name: a}]", xl.ErrDuplicateSheet},
		{"row range", "sheets: [{rows: [{row: 0, height: 3}]}]", xl.ErrRange},
		{"nan", "sheets: [{cells: [{ref: A1, number: .nan}]}]", xl.ErrNumber},
		{"infinity", "sheets: [{cells: [{ref: A1, number: -.inf}]}]", xl.ErrNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = m.Build()
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sales", m.Sheets[0].Name)

	require.NoError(t, os.WriteFile(path, []byte("sheets: {"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
