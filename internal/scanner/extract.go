package scanner

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxValueLength caps an extracted parameter value, in runes.
const MaxValueLength = 100

// space covers ASCII whitespace, Unicode separators, NEL and the
// information separators 0x1C-0x1F.
const space = `\s\p{Z}\x{85}\x{1C}-\x{1F}`

// assignment matches a separator run of whitespace, ':' or '=' followed by an
// optionally quoted value. Leading whitespace is trimmed first, so at least
// one ':' or '=' is required.
var assignment = regexp.MustCompile(`^[` + space + `:=]+["']?([^"'` + space + `;,#]+)`)

// ExtractValue returns the value assigned to a parameter name, given the text
// that follows the name. ok is false when no value can be extracted.
func ExtractValue(rest string) (value string, ok bool) {
	rest = strings.TrimLeftFunc(rest, isSpace)
	if rest == "" {
		return "", false
	}

	m := assignment.FindStringSubmatch(rest)
	if m == nil || m[1] == "" {
		return "", false
	}
	return truncateRunes(m[1], MaxValueLength), true
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1C && r <= 0x1F)
}
