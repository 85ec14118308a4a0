package hook

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/wayfind/origin-task/internal/invoke"
)

// symbols covers arrow blocks, emoji blocks and the joiners, selectors and
// tags that build emoji sequences
var symbols = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1},
		{Lo: 0x20e3, Hi: 0x20e3, Stride: 1},
		{Lo: 0x2190, Hi: 0x21ff, Stride: 1},
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x2328, Hi: 0x2328, Stride: 1},
		{Lo: 0x23cf, Hi: 0x23cf, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23f3, Stride: 1},
		{Lo: 0x23f8, Hi: 0x23fa, Stride: 1},
		{Lo: 0x25b6, Hi: 0x25b6, Stride: 1},
		{Lo: 0x25c0, Hi: 0x25c0, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x27f0, Hi: 0x27ff, Stride: 1},
		{Lo: 0x2900, Hi: 0x297f, Stride: 1},
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
		{Lo: 0xfe0e, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
		{Lo: 0xe0020, Hi: 0xe007f, Stride: 1},
	},
}

// SanitizeStatus strips emoji and arrow glyphs from status output and
// collapses the whitespace they leave behind. Line structure and leading
// indentation survive; runs of blank lines shrink to one.
func SanitizeStatus(s string) string {
	s = invoke.NormalizeNewlines(s)

	var lines []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = sanitizeLine(line)
		if line == "" {
			if blank || len(lines) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		lines = append(lines, line)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func sanitizeLine(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	var b strings.Builder
	state := -1
	rest := line[len(indent):]
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if isSymbol(cluster) {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(cluster)
	}

	body := strings.Join(strings.Fields(b.String()), " ")
	if body == "" {
		return ""
	}
	return indent + body
}

// isSymbol reports whether a grapheme cluster is, or is decorated as, an
// emoji or arrow
func isSymbol(cluster string) bool {
	for _, r := range cluster {
		if unicode.Is(symbols, r) {
			return true
		}
	}
	return false
}
