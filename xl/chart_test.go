package xl

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/adnsv/srw/xml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ChartTestSuite struct {
	suite.Suite
	wb  *Workbook
	log *bytes.Buffer
}

func TestChartSuite(t *testing.T) {
	suite.Run(t, new(ChartTestSuite))
}

func (s *ChartTestSuite) SetupTest() {
	s.wb = NewWorkbook()
	s.log = &bytes.Buffer{}
	s.wb.SetLogger(slog.New(slog.NewTextHandler(s.log, nil)))
}

func (s *ChartTestSuite) newChart(t ChartType) *Chart {
	ch, err := s.wb.AddChart(t)
	s.Require().NoError(err)
	return ch
}

func (s *ChartTestSuite) marshal(ch *Chart) string {
	return string(marshalChart(ch, xml.WriterConfig{Indent: xml.IndentNone}, s.wb.logger))
}

// flat drops the line breaks that separate block tags.
func flat(out string) string {
	return strings.ReplaceAll(out, "\n", "")
}

func (s *ChartTestSuite) TestDefaultLayout() {
	l := defaultLayout()
	s.Equal(AxisBottom, l.CatAxisPosition)
	s.Equal(AxisLeft, l.ValAxisPosition)
	s.Equal(GroupingClustered, l.Grouping)
	s.Equal(CrossBetweenCategories, l.CrossBetween)
	s.Equal("General", l.CatNumFormat)
	s.Equal("General", l.ValNumFormat)
}

func (s *ChartTestSuite) TestLayoutTable() {
	tests := []struct {
		typ      ChartType
		grouping string
		cross    string
		catPos   string
		valPos   string
		overlap  bool
		markers  bool
		valFmt   string
	}{
		{ChartArea, "standard", "midCat", "b", "l", false, false, "General"},
		{ChartAreaStacked, "stacked", "midCat", "b", "l", false, false, "General"},
		{ChartAreaStackedPercent, "percentStacked", "midCat", "b", "l", false, false, "0%"},
		{ChartBar, "clustered", "between", "l", "b", false, false, "General"},
		{ChartBarStacked, "stacked", "between", "l", "b", true, false, "General"},
		{ChartBarStackedPercent, "percentStacked", "between", "l", "b", true, false, "0%"},
		{ChartColumn, "clustered", "between", "b", "l", false, false, "General"},
		{ChartColumnStacked, "stacked", "between", "b", "l", true, false, "General"},
		{ChartColumnStackedPercent, "percentStacked", "between", "b", "l", true, false, "0%"},
		{ChartLine, "standard", "between", "b", "l", false, true, "General"},
	}
	for _, tt := range tests {
		l := tt.typ.Layout()
		s.Equal(tt.grouping, l.Grouping.String(), tt.typ.String())
		s.Equal(tt.cross, l.CrossBetween.String(), tt.typ.String())
		s.Equal(tt.catPos, l.CatAxisPosition.String(), tt.typ.String())
		s.Equal(tt.valPos, l.ValAxisPosition.String(), tt.typ.String())
		s.Equal(tt.overlap, l.HasOverlap, tt.typ.String())
		s.Equal(tt.markers, l.HasMarkers, tt.typ.String())
		s.Equal(tt.valFmt, l.ValNumFormat, tt.typ.String())
	}
}

func (s *ChartTestSuite) TestBarStackedPercentXML() {
	ch := s.newChart(ChartBarStackedPercent)
	ch.AddSeries("=Sheet1!$A$1:$A$5", "=Sheet1!$B$1:$B$5")
	out := s.marshal(ch)

	s.Contains(out, `<c:barDir val="bar"`)
	s.Contains(out, `<c:grouping val="percentStacked"`)
	s.Contains(out, `<c:overlap val="100"`)
	s.Contains(out, `<c:numFmt formatCode="0%" sourceLinked="1"`)
	s.Contains(out, `<c:axPos val="l"`)
	s.Contains(out, `<c:f>Sheet1!$A$1:$A$5</c:f>`)
	s.NotContains(out, "<c:numCache>")
}

func (s *ChartTestSuite) TestLineXML() {
	ch := s.newChart(ChartLine)
	ch.AddSeries("", "Sheet1!$A$1:$A$5")
	out := s.marshal(ch)

	s.Contains(out, "<c:lineChart>")
	s.Contains(out, `<c:grouping val="standard"`)
	s.Contains(out, `<c:symbol val="none"`)
	s.Contains(out, `<c:marker val="1"`)
	s.NotContains(out, "<c:cat>")
	// no category references, so the category axis has no number format
	s.Equal(1, strings.Count(out, "<c:numFmt "))
}

func (s *ChartTestSuite) TestColumnUsesColumnDirection() {
	ch := s.newChart(ChartColumn)
	ch.AddSeries("", "Sheet1!$A$1:$A$5")
	out := s.marshal(ch)

	s.Contains(out, `<c:barDir val="col"`)
	s.Contains(out, `<c:grouping val="clustered"`)
	s.NotContains(out, "<c:overlap")
}

func (s *ChartTestSuite) TestAxisIDsAreMemoized() {
	s.newChart(ChartArea)
	ch := s.newChart(ChartColumn)
	ch.AddSeries("", "Sheet1!$A$1:$A$3")

	cat, val := ch.AxisIDs()
	s.Equal(50_010_000+2+1, cat)
	s.Equal(cat+1, val)

	first := s.marshal(ch)
	second := s.marshal(ch)
	s.Equal(first, second)

	c2, v2 := ch.AxisIDs()
	s.Equal(cat, c2)
	s.Equal(val, v2)
	s.Equal(3, strings.Count(first, `val="50010003"`)) // chart axId, catAx axId, valAx crossAx
}

func (s *ChartTestSuite) TestSeriesIndexIsPositional() {
	ch := s.newChart(ChartLine)
	ch.AddSeries("", "Sheet1!$A$1:$A$3")
	ch.AddSeries("", "Sheet1!$B$1:$B$3")
	ch.AddSeries("", "Sheet1!$C$1:$C$3")

	for i := 0; i < 2; i++ {
		out := s.marshal(ch)
		s.Contains(out, `<c:idx val="2"`)
		s.NotContains(out, `<c:idx val="3"`)
	}
}

func (s *ChartTestSuite) TestAddSeriesStripsEquals() {
	ch := s.newChart(ChartBar)
	ser := ch.AddSeries("=Sheet1!$A$1:$A$5", "Sheet1!$B$1:$B$5")
	s.Equal("Sheet1!$A$1:$A$5", ser.Categories.Formula)
	s.Equal("Sheet1!$B$1:$B$5", ser.Values.Formula)
	s.NotNil(ser.Categories.DataCache())
	s.Empty(ser.Categories.DataCache())
	s.Len(ch.Series, 1)
}

func (s *ChartTestSuite) TestDataCache() {
	ch := s.newChart(ChartColumn)
	ser := ch.AddSeries("", "Sheet1!$A$1:$A$3")
	ser.Values.SetDataCache([]float64{1, 2.5, 3})
	out := s.marshal(ch)

	s.Contains(out, "<c:numCache>")
	s.Contains(out, `<c:ptCount val="3"`)
	s.Contains(out, `<c:pt idx="1"`)
	s.Contains(out, `<c:v>2.5</c:v>`)

	ser.Values.InitDataCache()
	s.NotContains(s.marshal(ch), "<c:numCache>")
}

func (s *ChartTestSuite) TestUnknownTypeIsDegraded() {
	ch := s.newChart(ChartType(99))
	ch.AddSeries("", "Sheet1!$A$1:$A$3")
	out := s.marshal(ch)

	s.Contains(out, "<c:plotArea>")
	s.Contains(out, "<c:catAx>")
	s.Contains(out, "<c:valAx>")
	s.NotContains(out, "Chart>")
	s.NotContains(out, "<c:ser>")
	s.Contains(s.log.String(), "unsupported chart type")
	s.Contains(s.log.String(), "level=WARN")
}

func (s *ChartTestSuite) TestTitleFont() {
	ch := s.newChart(ChartColumn)
	ch.AddSeries("", "Sheet1!$A$1:$A$3")
	ch.Title = "R&D\x01"
	ch.TitleFont = &ChartFont{Name: "Calibri", Size: 14, Italic: true}
	out := flat(s.marshal(ch))

	font := `sz="1400" b="0" i="1" baseline="0"><a:latin typeface="Calibri"/>`
	s.Contains(out, `<c:chart><c:title><c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:pPr>`+
		`<a:defRPr `+font+`</a:defRPr></a:pPr>`+
		`<a:r><a:rPr lang="en-US" `+font+`</a:rPr><a:t>R&amp;D</a:t></a:r></a:p>`+
		`</c:rich></c:tx><c:layout/></c:title><c:plotArea>`)
}

func (s *ChartTestSuite) TestTitleWithoutFont() {
	ch := s.newChart(ChartLine)
	ch.AddSeries("", "Sheet1!$A$1:$A$3")
	ch.Title = "Trend"
	out := flat(s.marshal(ch))

	s.Contains(out, `<a:pPr><a:defRPr/></a:pPr><a:r><a:rPr lang="en-US"/><a:t>Trend</a:t>`)
	s.NotContains(out, "<c:txPr>")
}

func (s *ChartTestSuite) TestAxisFonts() {
	ch := s.newChart(ChartColumn)
	ch.AddSeries("", "Sheet1!$A$1:$A$3")
	ch.XAxis = ChartAxis{Name: "Month", NameFont: &ChartFont{Bold: true}}
	ch.YAxis = ChartAxis{Name: "Total", NumFont: &ChartFont{Name: "Arial", Size: 9, Bold: true}}
	out := flat(s.marshal(ch))

	// category axis at the bottom, horizontal title
	s.Contains(out, `<c:axPos val="b"/><c:title><c:tx><c:rich><a:bodyPr/>`)
	s.Contains(out, `<a:defRPr b="1" baseline="0"/>`)
	s.Contains(out, `<a:t>Month</a:t>`)

	// value axis on the left, rotated title after the gridlines
	s.Contains(out, `<c:majorGridlines/><c:title><c:tx><c:rich><a:bodyPr rot="-5400000" vert="horz"/>`)
	s.Contains(out, `<a:t>Total</a:t>`)
	s.Contains(out, `<c:tickLblPos val="nextTo"/><c:txPr><a:bodyPr/><a:lstStyle/><a:p><a:pPr>`+
		`<a:defRPr sz="900" b="1" baseline="0"><a:latin typeface="Arial"/></a:defRPr></a:pPr>`+
		`<a:endParaRPr lang="en-US"/></a:p></c:txPr><c:crossAx`)
	s.Equal(1, strings.Count(out, "<c:txPr>"))
	s.Equal(2, strings.Count(out, "<c:title>"))
}

func (s *ChartTestSuite) TestBarAxisTitleRotation() {
	ch := s.newChart(ChartBar)
	ch.AddSeries("", "Sheet1!$A$1:$A$3")
	ch.XAxis.Name = "Region"
	ch.YAxis.Name = "Sales"
	out := flat(s.marshal(ch))

	// bar charts put the category axis on the left
	s.Contains(out, `<c:axPos val="l"/><c:title><c:tx><c:rich><a:bodyPr rot="-5400000" vert="horz"/>`)
	s.Contains(out, `<c:majorGridlines/><c:title><c:tx><c:rich><a:bodyPr/>`)
}

func TestChartTypeNames(t *testing.T) {
	for typ, name := range chartTypeNames {
		got, ok := ParseChartType(name)
		require.True(t, ok)
		assert.Equal(t, typ, got)
	}
	_, ok := ParseChartType("pie")
	assert.False(t, ok)
	assert.Equal(t, "unknown", ChartType(0).String())
}

func TestChartSubtype(t *testing.T) {
	assert.Equal(t, SubtypeNormal, ChartLine.Subtype())
	assert.Equal(t, SubtypeStacked, ChartColumnStacked.Subtype())
	assert.Equal(t, SubtypePercentStacked, ChartAreaStackedPercent.Subtype())
}
