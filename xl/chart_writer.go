package xl

import (
	"bytes"
	"log/slog"

	"github.com/adnsv/srw/xml"
)

const (
	nsDrawingChart = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	nsDrawingMain  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeRels   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// chartWriter holds the state of one serialization pass over a chart.
// It is discarded afterwards, so repeated passes produce identical output.
type chartWriter struct {
	x           *xml.Writer
	chart       *Chart
	layout      ChartLayout
	seriesIndex int
	logger      *slog.Logger
}

// marshalChart produces the chart part for ch.
func marshalChart(ch *Chart, cfg xml.WriterConfig, logger *slog.Logger) []byte {
	bb := bytes.Buffer{}
	cw := &chartWriter{
		x:      xml.NewWriter(&bb, cfg),
		chart:  ch,
		layout: ch.Type.Layout(),
		logger: logger,
	}
	cw.writeChartSpace()
	return bb.Bytes()
}

func (cw *chartWriter) writeChartSpace() {
	x := cw.x
	x.XmlStandaloneDecl()
	x.OTag("c:chartSpace")
	x.Attr("xmlns:c", nsDrawingChart)
	x.Attr("xmlns:a", nsDrawingMain)
	x.Attr("xmlns:r", nsOfficeRels)

	x.OTag("+c:lang").Attr("val", "en-US").CTag()

	cw.writeChart()
	cw.writePrintSettings()

	x.CTag() // c:chartSpace
}

func (cw *chartWriter) writeChart() {
	x := cw.x
	x.OTag("+c:chart")

	if cw.chart.Title != "" {
		cw.writeTitle(cw.chart.Title, cw.chart.TitleFont, false)
	}

	x.OTag("+c:plotArea")
	x.OTag("+c:layout").CTag()
	cw.writeChartType()
	cw.writeCatAxis()
	cw.writeValAxis()
	x.CTag() // c:plotArea

	x.OTag("+c:legend")
	x.OTag("+c:legendPos").Attr("val", "r").CTag()
	x.OTag("+c:layout").CTag()
	x.CTag() // c:legend

	x.OTag("+c:plotVisOnly").Attr("val", 1).CTag()

	x.CTag() // c:chart
}

// writeChartType dispatches on the chart type. Unknown types are reported
// and produce a plot area without a type element.
func (cw *chartWriter) writeChartType() {
	x := cw.x
	switch cw.chart.Type {
	case ChartArea, ChartAreaStacked, ChartAreaStackedPercent:
		x.OTag("+c:areaChart")
		cw.writeTypeBody("")
		x.CTag()
	case ChartBar, ChartBarStacked, ChartBarStackedPercent:
		x.OTag("+c:barChart")
		cw.writeTypeBody("bar")
		x.CTag()
	case ChartColumn, ChartColumnStacked, ChartColumnStackedPercent:
		x.OTag("+c:barChart")
		cw.writeTypeBody("col")
		x.CTag()
	case ChartLine:
		x.OTag("+c:lineChart")
		cw.writeTypeBody("")
		x.CTag()
	default:
		cw.logger.Warn("unsupported chart type",
			slog.String("feature", "chart type"),
			slog.Int("type", int(cw.chart.Type)),
			slog.Int("chart", cw.chart.id))
	}
}

func (cw *chartWriter) writeTypeBody(barDir string) {
	x := cw.x
	if barDir != "" {
		x.OTag("+c:barDir").Attr("val", barDir).CTag()
	}
	x.OTag("+c:grouping").Attr("val", cw.layout.Grouping.String()).CTag()

	for _, s := range cw.chart.Series {
		cw.writeSeries(s)
	}

	if cw.layout.HasOverlap {
		x.OTag("+c:overlap").Attr("val", seriesOverlap).CTag()
	}
	if cw.layout.HasMarkers {
		x.OTag("+c:marker").Attr("val", 1).CTag()
	}

	cat, val := cw.chart.AxisIDs()
	x.OTag("+c:axId").Attr("val", cat).CTag()
	x.OTag("+c:axId").Attr("val", val).CTag()
}

func (cw *chartWriter) writeSeries(s *Series) {
	x := cw.x
	index := cw.seriesIndex
	cw.seriesIndex++

	x.OTag("+c:ser")
	x.OTag("+c:idx").Attr("val", index).CTag()
	x.OTag("+c:order").Attr("val", index).CTag()

	if cw.layout.HasMarkers {
		x.OTag("+c:marker")
		x.OTag("+c:symbol").Attr("val", "none").CTag()
		x.CTag()
	}

	// charts without category values have no c:cat element
	if s.Categories.Formula != "" {
		x.OTag("+c:cat")
		cw.writeNumRef(s.Categories)
		x.CTag()
	}

	x.OTag("+c:val")
	cw.writeNumRef(s.Values)
	x.CTag()

	x.CTag() // c:ser
}

func (cw *chartWriter) writeNumRef(r *SeriesRange) {
	x := cw.x
	x.OTag("+c:numRef")
	x.OTag("+c:f").RawString(escapeText(r.Formula)).CTag()

	if len(r.cache) > 0 {
		x.OTag("+c:numCache")
		x.OTag("+c:formatCode").String(defaultNumFormat).CTag()
		x.OTag("+c:ptCount").Attr("val", len(r.cache)).CTag()
		for i, v := range r.cache {
			x.OTag("+c:pt").Attr("idx", i)
			x.OTag("+c:v").Write(formatNumber(v)).CTag()
			x.CTag()
		}
		x.CTag() // c:numCache
	}

	x.CTag() // c:numRef
}

func (cw *chartWriter) hasCategories() bool {
	for _, s := range cw.chart.Series {
		if s.Categories.Formula != "" {
			return true
		}
	}
	return false
}

func (cw *chartWriter) writeScaling() {
	x := cw.x
	x.OTag("+c:scaling")
	x.OTag("+c:orientation").Attr("val", "minMax").CTag()
	x.CTag()
}

// writeCatAxis writes the c:catAx element, usually the X axis.
func (cw *chartWriter) writeCatAxis() {
	x := cw.x
	cat, val := cw.chart.AxisIDs()

	x.OTag("+c:catAx")
	x.OTag("+c:axId").Attr("val", cat).CTag()
	cw.writeScaling()
	pos := cw.layout.CatAxisPosition
	x.OTag("+c:axPos").Attr("val", pos.String()).CTag()
	if ax := cw.chart.XAxis; ax.Name != "" {
		cw.writeTitle(ax.Name, ax.NameFont, pos.vertical())
	}
	if cw.hasCategories() {
		x.OTag("+c:numFmt").Attr("formatCode", cw.layout.CatNumFormat).Attr("sourceLinked", 1).CTag()
	}
	x.OTag("+c:tickLblPos").Attr("val", "nextTo").CTag()
	cw.writeTxPr(cw.chart.XAxis.NumFont)
	x.OTag("+c:crossAx").Attr("val", val).CTag()
	x.OTag("+c:crosses").Attr("val", "autoZero").CTag()
	x.OTag("+c:auto").Attr("val", 1).CTag()
	x.OTag("+c:lblAlgn").Attr("val", "ctr").CTag()
	x.OTag("+c:lblOffset").Attr("val", 100).CTag()
	x.CTag() // c:catAx
}

func (cw *chartWriter) writeValAxis() {
	x := cw.x
	cat, val := cw.chart.AxisIDs()

	x.OTag("+c:valAx")
	x.OTag("+c:axId").Attr("val", val).CTag()
	cw.writeScaling()
	pos := cw.layout.ValAxisPosition
	x.OTag("+c:axPos").Attr("val", pos.String()).CTag()
	x.OTag("+c:majorGridlines").CTag()
	if ax := cw.chart.YAxis; ax.Name != "" {
		cw.writeTitle(ax.Name, ax.NameFont, pos.vertical())
	}
	x.OTag("+c:numFmt").Attr("formatCode", cw.layout.ValNumFormat).Attr("sourceLinked", 1).CTag()
	x.OTag("+c:tickLblPos").Attr("val", "nextTo").CTag()
	cw.writeTxPr(cw.chart.YAxis.NumFont)
	x.OTag("+c:crossAx").Attr("val", cat).CTag()
	x.OTag("+c:crosses").Attr("val", "autoZero").CTag()
	x.OTag("+c:crossBetween").Attr("val", cw.layout.CrossBetween.String()).CTag()
	x.CTag() // c:valAx
}

// writeTitle writes a c:title with rich text. Titles of vertical axes are
// rotated to read bottom to top.
func (cw *chartWriter) writeTitle(text string, font *ChartFont, rotated bool) {
	x := cw.x
	x.OTag("+c:title")
	x.OTag("+c:tx")
	x.OTag("+c:rich")
	writeBodyPr(x, rotated)
	x.OTag("+a:lstStyle").CTag()
	x.OTag("+a:p")
	x.OTag("+a:pPr")
	writeDefRPr(x, font, true)
	x.CTag() // a:pPr
	x.OTag("+a:r")
	x.OTag("+a:rPr").Attr("lang", "en-US")
	writeFontAttrs(x, font, true)
	writeLatin(x, font)
	x.CTag()
	x.OTag("+a:t").RawString(escapeText(text)).CTag()
	x.CTag() // a:r
	x.CTag() // a:p
	x.CTag() // c:rich
	x.CTag() // c:tx
	x.OTag("+c:layout").CTag()
	x.CTag() // c:title
}

// writeTxPr writes the text properties of axis tick labels. Nothing is
// written for a nil font.
func (cw *chartWriter) writeTxPr(font *ChartFont) {
	if font == nil {
		return
	}
	x := cw.x
	x.OTag("+c:txPr")
	writeBodyPr(x, false)
	x.OTag("+a:lstStyle").CTag()
	x.OTag("+a:p")
	x.OTag("+a:pPr")
	writeDefRPr(x, font, false)
	x.CTag() // a:pPr
	x.OTag("+a:endParaRPr").Attr("lang", "en-US").CTag()
	x.CTag() // a:p
	x.CTag() // c:txPr
}

func writeBodyPr(x *xml.Writer, rotated bool) {
	x.OTag("+a:bodyPr")
	if rotated {
		x.Attr("rot", -5400000).Attr("vert", "horz")
	}
	x.CTag()
}

func writeDefRPr(x *xml.Writer, font *ChartFont, title bool) {
	x.OTag("+a:defRPr")
	writeFontAttrs(x, font, title)
	writeLatin(x, font)
	x.CTag()
}

// writeFontAttrs writes the size and style attributes of a run. Titles are
// bold by default, so a title font states bold either way.
func writeFontAttrs(x *xml.Writer, font *ChartFont, title bool) {
	if font == nil {
		return
	}
	if font.Size > 0 {
		x.Attr("sz", int(font.Size*100+0.5))
	}
	switch {
	case font.Bold:
		x.Attr("b", 1)
	case title:
		x.Attr("b", 0)
	}
	if font.Italic {
		x.Attr("i", 1)
	}
	x.Attr("baseline", 0)
}

func writeLatin(x *xml.Writer, font *ChartFont) {
	if font == nil || font.Name == "" {
		return
	}
	x.OTag("+a:latin").Attr("typeface", font.Name).CTag()
}

func (cw *chartWriter) writePrintSettings() {
	x := cw.x
	x.OTag("+c:printSettings")
	x.OTag("+c:headerFooter").CTag()
	x.OTag("+c:pageMargins").
		Attr("b", "0.75").
		Attr("l", "0.7").
		Attr("r", "0.7").
		Attr("t", "0.75").
		Attr("header", "0.3").
		Attr("footer", "0.3").
		CTag()
	x.OTag("+c:pageSetup").CTag()
	x.CTag() // c:printSettings
}
