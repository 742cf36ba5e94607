package xl

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/google/uuid"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

const (
	nsSpreadsheet   = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsDrawingSheet  = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"

	relTypeOfficeDoc     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtendedProps = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeWorksheet     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relTypeStyles        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeSharedStrings = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	relTypeDrawing       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing"
	relTypeChart         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"

	ctWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ctDrawing       = "application/vnd.openxmlformats-officedocument.drawing+xml"
	ctChart         = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtendedProps = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Options configures the package writer.
type Options struct {
	// Indent pretty-prints every XML part; handy together with DirStorage.
	Indent bool

	// SkipDataCache disables filling empty chart data caches from worksheet cells.
	SkipDataCache bool
}

// Writer assembles a frozen workbook into package parts.
type Writer struct {
	Options Options

	out            Storage
	logger         *slog.Logger
	lastGlobalId   int
	lastWorkbookId int

	GlobalRels          map[string]RelInfo // maps id to absolute path
	WorkbookRels        map[string]RelInfo // maps id to absolute paths
	DefaultContentTypes map[string]string  // maps path extension to content-type
	PartContentTypes    map[string]string  // maps path partname to content-type

	styles *styleTable
}

type RelInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

// sheetPart holds the ids allocated for one worksheet before serialization.
type sheetPart struct {
	sheet      *Sheet
	sheetID    int
	rid        string
	path       string
	drawing    int    // drawing part number, 0 when the sheet has no charts
	drawingRid string // relationship id of the drawing in the sheet rels
}

func NewWriter(s Storage) *Writer {
	w := &Writer{
		out:                 s,
		logger:              slog.Default(),
		GlobalRels:          map[string]RelInfo{},
		WorkbookRels:        map[string]RelInfo{},
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},
	}

	w.DefaultContentTypes["xml"] = "application/xml"
	w.DefaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

func (w *Writer) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *Writer) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}

func (w *Writer) xmlConfig() xml.WriterConfig {
	if w.Options.Indent {
		return xml.WriterConfig{Indent: xml.Indent2Spaces}
	}
	return xml.WriterConfig{Indent: xml.IndentNone}
}

func (w *Writer) put(path string, blob []byte) error {
	if err := w.out.WriteBlob(path, blob); err != nil {
		return &PartError{Part: path, Err: err}
	}
	w.logger.Debug("wrote part", slog.String("part", path), slog.Int("bytes", len(blob)))
	return nil
}

// Write freezes wb and writes every part of the package. The steps run in a
// fixed order: ids referenced by XML are final before any part is produced.
//
// The workbook stays frozen whether or not Write succeeds. A storage failure
// aborts assembly and the parts written so far are incomplete; build the
// workbook again to retry.
func (w *Writer) Write(wb *Workbook) error {
	w.logger = wb.logger

	// 1, 2: no further cell, string or format changes
	wb.closed = true
	wb.sst.freeze()
	w.styles = buildStyleTable(wb.formats)

	if !w.Options.SkipDataCache {
		populateDataCaches(wb)
	}

	// 3: chart axis ids
	for _, ch := range wb.Charts {
		ch.AxisIDs()
		if !ch.inserted {
			w.logger.Warn("chart is not inserted in any worksheet, skipped",
				slog.String("feature", "orphan chart"),
				slog.Int("chart", ch.id))
		}
	}

	// 4: part names and relationship ids
	sheets := w.planSheets(wb)
	w.planWorkbook(wb)

	// 5, 6: serialize
	for _, sp := range sheets {
		if err := w.writeSheet(sp); err != nil {
			return err
		}
		if sp.drawing > 0 {
			if err := w.writeDrawing(sp); err != nil {
				return err
			}
		}
	}
	for _, ch := range wb.Charts {
		if !ch.inserted {
			continue
		}
		if err := w.writeChart(ch); err != nil {
			return err
		}
	}

	if err := w.writeWorkbook(wb, sheets); err != nil {
		return err
	}
	if err := w.writeStyles(); err != nil {
		return err
	}
	if wb.sst.Len() > 0 {
		if err := w.writeSharedStrings(wb.sst); err != nil {
			return err
		}
	}
	if err := w.writeCoreProperties(wb.Properties); err != nil {
		return err
	}
	if err := w.writeExtendedProperties(wb); err != nil {
		return err
	}

	if err := w.writeRels("/xl/_rels/workbook.xml.rels", w.WorkbookRels); err != nil {
		return err
	}
	if err := w.writeRels("/_rels/.rels", w.GlobalRels); err != nil {
		return err
	}
	return w.writeContentTypes()
}

func (w *Writer) planSheets(wb *Workbook) []*sheetPart {
	parts := make([]*sheetPart, 0, len(wb.Sheets))
	drawings := 0
	for i, sh := range wb.Sheets {
		_, rid := w.nextWorkbookID()
		sp := &sheetPart{
			sheet:   sh,
			sheetID: i + 1,
			rid:     rid,
			path:    fmt.Sprintf("worksheets/sheet%d.xml", i+1),
		}
		w.WorkbookRels[rid] = RelInfo{Type: relTypeWorksheet, Target: sp.path}
		w.PartContentTypes["/xl/"+sp.path] = ctWorksheet
		if len(sh.charts) > 0 {
			drawings++
			sp.drawing = drawings
			sp.drawingRid = "rId1"
			w.PartContentTypes[fmt.Sprintf("/xl/drawings/drawing%d.xml", drawings)] = ctDrawing
		}
		parts = append(parts, sp)
	}
	for _, ch := range wb.Charts {
		if !ch.inserted {
			continue
		}
		w.PartContentTypes[fmt.Sprintf("/xl/charts/chart%d.xml", ch.id)] = ctChart
	}
	return parts
}

func (w *Writer) planWorkbook(wb *Workbook) {
	_, rid := w.nextGlobalID()
	w.GlobalRels[rid] = RelInfo{Type: relTypeOfficeDoc, Target: "xl/workbook.xml"}
	w.PartContentTypes["/xl/workbook.xml"] = ctWorkbook

	_, rid = w.nextGlobalID()
	w.GlobalRels[rid] = RelInfo{Type: relTypeCoreProps, Target: "docProps/core.xml"}
	w.PartContentTypes["/docProps/core.xml"] = ctCoreProps

	_, rid = w.nextGlobalID()
	w.GlobalRels[rid] = RelInfo{Type: relTypeExtendedProps, Target: "docProps/app.xml"}
	w.PartContentTypes["/docProps/app.xml"] = ctExtendedProps

	_, rid = w.nextWorkbookID()
	w.WorkbookRels[rid] = RelInfo{Type: relTypeStyles, Target: "styles.xml"}
	w.PartContentTypes["/xl/styles.xml"] = ctStyles

	if wb.sst.Len() > 0 {
		_, rid = w.nextWorkbookID()
		w.WorkbookRels[rid] = RelInfo{Type: relTypeSharedStrings, Target: "sharedStrings.xml"}
		w.PartContentTypes["/xl/sharedStrings.xml"] = ctSharedStrings
	}
}

func (w *Writer) writeCoreProperties(p Properties) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())

	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	if p.Title != "" {
		x.OTag("+dc:title").RawString(escapeText(p.Title)).CTag()
	}
	if p.Subject != "" {
		x.OTag("+dc:subject").RawString(escapeText(p.Subject)).CTag()
	}
	if p.Author != "" {
		x.OTag("+dc:creator").RawString(escapeText(p.Author)).CTag()
		x.OTag("+cp:lastModifiedBy").RawString(escapeText(p.Author)).CTag()
	}
	id := p.Identifier
	if id == "" {
		id = uuid.NewString()
	}
	x.OTag("+dc:identifier").RawString(escapeText(id)).CTag()

	created := p.Created
	if created.IsZero() {
		created = time.Now()
	}
	stamp := created.UTC().Format(time.RFC3339)
	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()
	x.OTag("+dcterms:modified")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(stamp)
	x.CTag()

	x.CTag()

	return w.put("/docProps/core.xml", bb.Bytes())
}

func (w *Writer) writeExtendedProperties(wb *Workbook) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	appname := wb.AppName
	if appname == "" {
		appname = "Microsoft Excel"
	}
	x.OTag("+Application").RawString(escapeText(appname)).CTag()
	x.OTag("+DocSecurity").Write(0).CTag()
	x.OTag("+ScaleCrop").Write("false").CTag()

	x.OTag("+HeadingPairs")
	x.OTag("+vt:vector").Attr("size", 2).Attr("baseType", "variant")
	x.OTag("+vt:variant")
	x.OTag("vt:lpstr").String("Worksheets").CTag()
	x.CTag()
	x.OTag("+vt:variant")
	x.OTag("vt:i4").Write(len(wb.Sheets)).CTag()
	x.CTag()
	x.CTag() // vt:vector
	x.CTag() // HeadingPairs

	x.OTag("+TitlesOfParts")
	x.OTag("+vt:vector").Attr("size", len(wb.Sheets)).Attr("baseType", "lpstr")
	for _, sh := range wb.Sheets {
		x.OTag("+vt:lpstr").RawString(escapeText(sh.Name)).CTag()
	}
	x.CTag() // vt:vector
	x.CTag() // TitlesOfParts

	if wb.Properties.Company != "" {
		x.OTag("+Company").RawString(escapeText(wb.Properties.Company)).CTag()
	}
	x.OTag("+LinksUpToDate").Write("false").CTag()
	x.OTag("+SharedDoc").Write("false").CTag()
	if wb.Properties.HyperlinkBase != "" {
		x.OTag("+HyperlinkBase").RawString(escapeText(wb.Properties.HyperlinkBase)).CTag()
	}
	x.OTag("+HyperlinksChanged").Write("false").CTag()
	x.OTag("+AppVersion").Write("12.0000").CTag()

	x.CTag()

	return w.put("/docProps/app.xml", bb.Bytes())
}

func (w *Writer) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.PartContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.put("[Content_Types].xml", bb.Bytes())
}

func (w *Writer) writeStyles() error {
	st := w.styles

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", nsSpreadsheet)

	if len(st.numFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(st.numFmts))
		for _, nf := range st.numFmts {
			x.OTag("+numFmt").Attr("numFmtId", nf.id).Attr("formatCode", nf.code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(st.formats)+1)
	writeFont(x, Font{})
	for _, f := range st.formats {
		writeFont(x, f.Font)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", 2)
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", "none").CTag()
	x.CTag()
	x.OTag("+fill")
	x.OTag("patternFill").Attr("patternType", "gray125").CTag()
	x.CTag()
	x.CTag()

	x.OTag("+borders").Attr("count", 1)
	x.OTag("+border")
	x.OTag("left").CTag()
	x.OTag("right").CTag()
	x.OTag("top").CTag()
	x.OTag("bottom").CTag()
	x.OTag("diagonal").CTag()
	x.CTag()
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(st.formats)+1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).Attr("xfId", 0).CTag()
	for i, f := range st.formats {
		numID := st.numIDs[f]
		x.OTag("+xf")
		x.Attr("numFmtId", numID)
		x.Attr("fontId", i+1)
		x.Attr("fillId", 0)
		x.Attr("borderId", 0)
		x.Attr("xfId", 0)
		if numID != 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if !f.Font.IsDefault() {
			x.Attr("applyFont", 1)
		}
		if f.Hidden {
			x.Attr("applyProtection", 1)
			x.OTag("protection").Attr("hidden", 1).CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.OTag("+dxfs").Attr("count", 0).CTag()
	x.OTag("+tableStyles").Attr("count", 0).Attr("defaultTableStyle", "TableStyleMedium9").Attr("defaultPivotStyle", "PivotStyleLight16").CTag()

	x.CTag()

	return w.put("/xl/styles.xml", bb.Bytes())
}

func (w *Writer) writeWorkbook(wb *Workbook, sheets []*sheetPart) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", nsSpreadsheet)
	x.Attr("xmlns:r", nsOfficeRels)

	x.OTag("+fileVersion")
	x.Attr("appName", "xl")
	x.Attr("lastEdited", 4)
	x.Attr("lowestEdited", 4)
	x.Attr("rupBuild", 4505)
	x.CTag()

	x.OTag("+workbookPr").Attr("defaultThemeVersion", 124226).CTag()

	x.OTag("+bookViews")
	x.OTag("+workbookView")
	x.Attr("xWindow", 240)
	x.Attr("yWindow", 15)
	x.Attr("windowWidth", 16095)
	x.Attr("windowHeight", 9660)
	x.CTag()
	x.CTag()

	x.OTag("+sheets")
	for _, sp := range sheets {
		x.OTag("+sheet")
		x.Attr("name", sp.sheet.Name)
		x.Attr("sheetId", sp.sheetID)
		x.Attr("r:id", sp.rid)
		x.CTag()
	}
	x.CTag()

	// formulas carry placeholder results; ask the application to recalculate
	x.OTag("+calcPr").Attr("calcId", 124519).Attr("fullCalcOnLoad", 1).CTag()

	x.CTag()

	return w.put("/xl/workbook.xml", bb.Bytes())
}

func (w *Writer) writeSharedStrings(sst *SharedStrings) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("sst")
	x.Attr("xmlns", nsSpreadsheet)
	x.Attr("count", sst.Count())
	x.Attr("uniqueCount", sst.Len())

	for _, s := range sst.strings {
		x.OTag("+si")
		x.OTag("t")
		if strings.TrimSpace(s) != s {
			x.Attr("xml:space", "preserve")
		}
		x.RawString(escapeXstring(s))
		x.CTag()
		x.CTag()
	}

	x.CTag()

	return w.put("/xl/sharedStrings.xml", bb.Bytes())
}

func (w *Writer) writeChart(ch *Chart) error {
	blob := marshalChart(ch, w.xmlConfig(), w.logger)
	return w.put(fmt.Sprintf("/xl/charts/chart%d.xml", ch.id), blob)
}

func (w *Writer) writeRels(path string, rels map[string]RelInfo) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, w.xmlConfig())
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", nsRelationships)
	err := enumerate(rels, func(rid string, info RelInfo) error {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		x.CTag()

		return nil
	})
	if err != nil {
		return err
	}
	x.CTag()

	return w.put(path, bb.Bytes())
}

// enumerate visits map entries in key order. Relationship ids are compared
// by their numeric suffix so that rId10 follows rId9.
func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.SortFunc(keys, func(a, b K) int {
		sa, sb := fmt.Sprint(a), fmt.Sprint(b)
		if strings.HasPrefix(sa, "rId") && strings.HasPrefix(sb, "rId") && len(sa) != len(sb) {
			return len(sa) - len(sb)
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
