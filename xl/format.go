package xl

// Format is an opaque style handle attached to cells, rows and columns.
// Worksheets store and forward it; only the styles part interprets it.
type Format struct {
	Font      Font
	NumFormat string // number format code, "" means General
	Hidden    bool   // hide formulas when the sheet is protected

	xfIndex int
}

// XFIndex returns the cell format index assigned when the workbook was frozen.
func (f *Format) XFIndex() int {
	if f == nil {
		return 0
	}
	return f.xfIndex
}

// builtinNumFormats lists the number formats Excel knows without a numFmt record.
var builtinNumFormats = map[string]int{
	"General":                  0,
	"0":                        1,
	"0.00":                     2,
	"#,##0":                    3,
	"#,##0.00":                 4,
	"0%":                       9,
	"0.00%":                    10,
	"0.00E+00":                 11,
	"# ?/?":                    12,
	"# ??/??":                  13,
	"m/d/yy":                   14,
	"d-mmm-yy":                 15,
	"d-mmm":                    16,
	"mmm-yy":                   17,
	"h:mm AM/PM":               18,
	"h:mm:ss AM/PM":            19,
	"h:mm":                     20,
	"h:mm:ss":                  21,
	"m/d/yy h:mm":              22,
	"#,##0 ;(#,##0)":           37,
	"#,##0 ;[Red](#,##0)":      38,
	"#,##0.00;(#,##0.00)":      39,
	"#,##0.00;[Red](#,##0.00)": 40,
	"mm:ss":                    45,
	"[h]:mm:ss":                46,
	"mm:ss.0":                  47,
	"##0.0E+0":                 48,
	"@":                        49,
}

const firstCustomNumFormat = 164

type numFmt struct {
	id   int
	code string
}

// styleTable is the frozen projection of the registered formats.
type styleTable struct {
	formats []*Format
	numFmts []numFmt // custom codes only, in id order
	numIDs  map[*Format]int
}

func buildStyleTable(formats []*Format) *styleTable {
	st := &styleTable{
		formats: formats,
		numIDs:  map[*Format]int{},
	}
	custom := map[string]int{}
	for i, f := range formats {
		f.xfIndex = i + 1
		code := f.NumFormat
		if code == "" {
			st.numIDs[f] = 0
			continue
		}
		if id, ok := builtinNumFormats[code]; ok {
			st.numIDs[f] = id
			continue
		}
		id, ok := custom[code]
		if !ok {
			id = firstCustomNumFormat + len(st.numFmts)
			custom[code] = id
			st.numFmts = append(st.numFmts, numFmt{id: id, code: code})
		}
		st.numIDs[f] = id
	}
	return st
}
