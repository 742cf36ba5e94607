package xl

import (
	"strings"

	"github.com/adnsv/srw/xml"
)

const hexDigits = "0123456789ABCDEF"

// escapeXstring renders s as ST_Xstring content, used by shared strings and
// formulas. Control characters XML cannot carry, and '\r' which XML parsers
// fold into '\n', are written as _xHHHH_. An underscore that would otherwise
// read as such an escape is itself written as _x005F_.
func escapeXstring(s string) xml.RawString {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '&':
			b.WriteString("&amp;")
		case c == '<':
			b.WriteString("&lt;")
		case c == '>':
			b.WriteString("&gt;")
		case c == '\t' || c == '\n':
			b.WriteByte(c)
		case c < 0x20:
			b.WriteString("_x00")
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
			b.WriteByte('_')
		case c == '_' && isXEscape(s[i:]):
			b.WriteString("_x005F_")
		default:
			b.WriteByte(c)
		}
	}
	return xml.RawString(b.String())
}

// isXEscape reports whether s starts with _xHHHH_.
func isXEscape(s string) bool {
	if len(s) < 7 || s[0] != '_' || (s[1] != 'x' && s[1] != 'X') || s[6] != '_' {
		return false
	}
	for _, c := range []byte(s[2:6]) {
		if !strings.ContainsRune("0123456789abcdefABCDEF", rune(c)) {
			return false
		}
	}
	return true
}

// escapeText renders s as plain element content for parts that have no
// _xHHHH_ convention (document properties, drawing text). '\r' becomes a
// character reference so it survives parsing; other control characters are
// not representable in XML 1.0 and are dropped.
func escapeText(s string) xml.RawString {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '&':
			b.WriteString("&amp;")
		case c == '<':
			b.WriteString("&lt;")
		case c == '>':
			b.WriteString("&gt;")
		case c == '\r':
			b.WriteString("&#13;")
		case c == '\t' || c == '\n':
			b.WriteByte(c)
		case c < 0x20:
		default:
			b.WriteByte(c)
		}
	}
	return xml.RawString(b.String())
}
