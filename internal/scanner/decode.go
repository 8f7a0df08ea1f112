package scanner

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText returns data as a string. Valid UTF-8 is used as is; anything
// else is decoded as ISO-8859-1, which maps every byte.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(out)
}

// SplitLines splits on "\r\n" and on every single line boundary: "\n",
// "\r", "\v", "\f", the file, group and record separators (0x1C-0x1E),
// NEL (U+0085) and the Unicode line and paragraph separators. A trailing
// boundary does not produce an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string
	start := 0
	for i, r := range text {
		if i < start {
			// Second half of a "\r\n" pair.
			continue
		}
		if !isLineBoundary(r) {
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && start < len(text) && text[start] == '\n' {
			start++
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1C, 0x1D, 0x1E, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
