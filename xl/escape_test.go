package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeXstring(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a<b&c>", "a&lt;b&amp;c&gt;"},
		{"a\r\nb", "a_x000D_\nb"},
		{"\x01", "_x0001_"},
		{"tab\there", "tab\there"},
		{"\x1f", "_x001F_"},
		{"_x0041_", "_x005F_x0041_"},
		{"_X00ff_", "_x005F_X00ff_"},
		{"_x00", "_x00"},
		{"_x00G1_", "_x00G1_"},
		{"snake_case", "snake_case"},
		{"naïve", "naïve"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(escapeXstring(tt.in)), "%q", tt.in)
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R&D <2>", "R&amp;D &lt;2&gt;"},
		{"a\r\nb", "a&#13;\nb"},
		{"ctl\x01\x1bx", "ctlx"},
		{"_x0041_", "_x0041_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(escapeText(tt.in)), "%q", tt.in)
	}
}
