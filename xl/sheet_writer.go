package xl

import (
	"bytes"
	"fmt"

	"github.com/adnsv/srw/xml"
)

const (
	defaultColWidth  = 8.43
	defaultRowHeight = 15

	// inserted charts span 8 default columns by 15 default rows (480x288 px)
	chartAnchorCols = 8
	chartAnchorRows = 15
)

type chartAnchor struct {
	row, col int
	chart    *Chart
}

func (w *Writer) writeSheet(sp *sheetPart) error {
	sh := sp.sheet

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("worksheet")
	x.Attr("xmlns", nsSpreadsheet)
	x.Attr("xmlns:r", nsOfficeRels)

	x.OTag("+dimension").Attr("ref", sh.dimensionRef()).CTag()

	x.OTag("+sheetViews")
	x.OTag("+sheetView")
	if sh.index == 0 {
		x.Attr("tabSelected", 1)
	}
	x.Attr("workbookViewId", 0)
	x.CTag()
	x.CTag()

	x.OTag("+sheetFormatPr").Attr("defaultRowHeight", defaultRowHeight).CTag()

	if len(sh.Columns) > 0 {
		x.OTag("+cols")
		enumerate(sh.Columns, func(n int, v *Column) error {
			x.OTag("+col").Attr("min", n+1).Attr("max", n+1)
			width := v.Width
			if width <= 0 {
				width = defaultColWidth
			}
			x.Attr("width", formatNumber(width))
			if v.Format != nil {
				x.Attr("style", v.Format.XFIndex())
			}
			if v.Hidden {
				x.Attr("hidden", 1)
			}
			if v.Width > 0 {
				x.Attr("customWidth", 1)
			}
			x.CTag()
			return nil
		})
		x.CTag()
	}

	x.OTag("+sheetData")
	for _, row := range sh.rows {
		if len(row.cells) == 0 && !row.changed {
			continue
		}
		x.OTag("+row").Attr("r", row.rowNumber+1)
		if row.Format != nil {
			x.Attr("s", row.Format.XFIndex()).Attr("customFormat", 1)
		}
		if row.Height > 0 {
			x.Attr("ht", formatNumber(row.Height)).Attr("customHeight", 1)
		}
		if row.Hidden {
			x.Attr("hidden", 1)
		}

		for _, cell := range row.cells {
			w.writeCell(x, sh, row, cell)
		}

		x.CTag() // row
	}
	x.CTag() // sheetData

	x.OTag("+pageMargins").
		Attr("left", "0.7").
		Attr("right", "0.7").
		Attr("top", "0.75").
		Attr("bottom", "0.75").
		Attr("header", "0.3").
		Attr("footer", "0.3").
		CTag()

	if sp.drawing > 0 {
		x.OTag("+drawing").Attr("r:id", sp.drawingRid).CTag()
	}

	x.CTag() // worksheet

	if err := w.put("/xl/"+sp.path, bb.Bytes()); err != nil {
		return err
	}
	if sp.drawing > 0 {
		rels := map[string]RelInfo{
			sp.drawingRid: {
				Type:   relTypeDrawing,
				Target: fmt.Sprintf("../drawings/drawing%d.xml", sp.drawing),
			},
		}
		return w.writeRels(fmt.Sprintf("/xl/worksheets/_rels/sheet%d.xml.rels", sp.sheetID), rels)
	}
	return nil
}

// cellStyle resolves the effective format: the cell's own, else the row's,
// else the column's.
func cellStyle(sh *Sheet, row *Row, cell *Cell) int {
	if cell.format != nil {
		return cell.format.XFIndex()
	}
	if row.Format != nil {
		return row.Format.XFIndex()
	}
	if col, ok := sh.Columns[cell.columnNumber]; ok && col.Format != nil {
		return col.Format.XFIndex()
	}
	return 0
}

func (w *Writer) writeCell(x *xml.Writer, sh *Sheet, row *Row, cell *Cell) {
	x.OTag("+c").Attr("r", cellRef(row.rowNumber, cell.columnNumber))
	if s := cellStyle(sh, row, cell); s != 0 {
		x.Attr("s", s)
	}

	switch cell.typ {
	case CellTypeNumber:
		x.OTag("v").Write(formatNumber(cell.number)).CTag()
	case CellTypeSharedString:
		x.Attr("t", "s")
		x.OTag("v").Write(cell.stringID).CTag()
	case CellTypeFormula:
		x.OTag("f").RawString(escapeXstring(cell.formula)).CTag()
		x.OTag("v").Write(formatNumber(cell.number)).CTag()
	case CellTypeBool:
		x.Attr("t", "b")
		x.OTag("v").Write(formatNumber(cell.number)).CTag()
	case CellTypeBlank:
	}
	x.CTag() // c
}

func (sh *Sheet) dimensionRef() string {
	minRow, minCol, maxRow, maxCol, ok := sh.Dimensions()
	if !ok {
		return "A1"
	}
	first := cellRef(minRow, minCol)
	if minRow == maxRow && minCol == maxCol {
		return first
	}
	return first + ":" + cellRef(maxRow, maxCol)
}

func (w *Writer) writeDrawing(sp *sheetPart) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("xdr:wsDr")
	x.Attr("xmlns:xdr", nsDrawingSheet)
	x.Attr("xmlns:a", nsDrawingMain)

	rels := map[string]RelInfo{}
	for i, a := range sp.sheet.charts {
		rid := fmt.Sprintf("rId%d", i+1)
		rels[rid] = RelInfo{
			Type:   relTypeChart,
			Target: fmt.Sprintf("../charts/chart%d.xml", a.chart.id),
		}

		x.OTag("+xdr:twoCellAnchor")
		writeAnchorPoint(x, true, a.row, a.col)
		writeAnchorPoint(x, false, min(a.row+chartAnchorRows, MaxRows-1), min(a.col+chartAnchorCols, MaxCols-1))

		x.OTag("+xdr:graphicFrame").Attr("macro", "")
		x.OTag("+xdr:nvGraphicFramePr")
		x.OTag("+xdr:cNvPr").Attr("id", i+2).Attr("name", fmt.Sprintf("Chart %d", i+1)).CTag()
		x.OTag("+xdr:cNvGraphicFramePr").CTag()
		x.CTag() // xdr:nvGraphicFramePr
		x.OTag("+xdr:xfrm")
		x.OTag("+a:off").Attr("x", 0).Attr("y", 0).CTag()
		x.OTag("+a:ext").Attr("cx", 0).Attr("cy", 0).CTag()
		x.CTag() // xdr:xfrm
		x.OTag("+a:graphic")
		x.OTag("+a:graphicData").Attr("uri", nsDrawingChart)
		x.OTag("+c:chart")
		x.Attr("xmlns:c", nsDrawingChart)
		x.Attr("xmlns:r", nsOfficeRels)
		x.Attr("r:id", rid)
		x.CTag()
		x.CTag() // a:graphicData
		x.CTag() // a:graphic
		x.CTag() // xdr:graphicFrame

		x.OTag("+xdr:clientData").CTag()
		x.CTag() // xdr:twoCellAnchor
	}

	x.CTag() // xdr:wsDr

	path := fmt.Sprintf("/xl/drawings/drawing%d.xml", sp.drawing)
	if err := w.put(path, bb.Bytes()); err != nil {
		return err
	}
	return w.writeRels(fmt.Sprintf("/xl/drawings/_rels/drawing%d.xml.rels", sp.drawing), rels)
}

func writeAnchorPoint(x *xml.Writer, from bool, row, col int) {
	if from {
		x.OTag("+xdr:from")
	} else {
		x.OTag("+xdr:to")
	}
	x.OTag("+xdr:col").Write(col).CTag()
	x.OTag("+xdr:colOff").Write(0).CTag()
	x.OTag("+xdr:row").Write(row).CTag()
	x.OTag("+xdr:rowOff").Write(0).CTag()
	x.CTag()
}
