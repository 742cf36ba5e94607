package xl

import "github.com/adnsv/srw/xml"

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
type Font struct {
	Size          float64       // Font size in points (0 = use default of 11)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""                 // No underline (default)
	UnderlineSingle           UnderlineType = "single"           // Single underline
	UnderlineDouble           UnderlineType = "double"           // Double underline
	UnderlineSingleAccounting UnderlineType = "singleAccounting" // Single accounting underline
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting" // Double accounting underline
)

const defaultFontSize = 11

// IsDefault returns true if the font uses all default properties.
func (f *Font) IsDefault() bool {
	return f.Size == 0 && !f.Bold && !f.Italic &&
		f.Underline == UnderlineNone && !f.Strikethrough
}

func writeFont(x *xml.Writer, f Font) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("b").CTag()
	}
	if f.Italic {
		x.OTag("i").CTag()
	}
	if f.Strikethrough {
		x.OTag("strike").CTag()
	}
	switch f.Underline {
	case UnderlineNone:
	case UnderlineSingle:
		x.OTag("u").CTag()
	default:
		x.OTag("u").Attr("val", string(f.Underline)).CTag()
	}
	size := f.Size
	if size <= 0 {
		size = defaultFontSize
	}
	x.OTag("sz").Attr("val", formatNumber(size)).CTag()
	x.OTag("color").Attr("theme", 1).CTag()
	x.OTag("name").Attr("val", "Calibri").CTag()
	x.OTag("family").Attr("val", 2).CTag()
	x.OTag("scheme").Attr("val", "minor").CTag()
	x.CTag() // font
}
