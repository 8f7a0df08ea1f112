package scanner

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// FindLines returns the lines of text containing keyword, trimmed, with
// 1-based line numbers. An empty keyword matches nothing.
func FindLines(text, keyword string, caseSensitive bool) []domain.KeywordMatch {
	if keyword == "" {
		return nil
	}

	needle := keyword
	if !caseSensitive {
		needle = strings.ToLower(keyword)
	}

	var matches []domain.KeywordMatch
	for i, line := range SplitLines(text) {
		hay := line
		if !caseSensitive {
			hay = strings.ToLower(line)
		}
		if strings.Contains(hay, needle) {
			matches = append(matches, domain.KeywordMatch{
				LineNumber: i + 1,
				Line:       strings.TrimSpace(line),
			})
		}
	}
	return matches
}

var (
	filenameQualifier  = regexp.MustCompile(`(?i)filename\s*:\s*(\S+)`)
	extensionQualifier = regexp.MustCompile(`(?i)extension\s*:\s*(\S+)`)
	quotedPhrase       = regexp.MustCompile(`"([^"]{2,100})"`)
	booleanToken       = regexp.MustCompile(`(?i)^(OR|AND|\||\(|\)|-)$`)
)

// KeywordFromQuery picks the term of a dork most likely to appear in the
// matching files: a filename: or extension: value, then the first quoted
// phrase, then the first significant token. Falls back to the query itself.
func KeywordFromQuery(query string) string {
	for _, re := range []*regexp.Regexp{filenameQualifier, extensionQualifier} {
		if m := re.FindStringSubmatch(query); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), `"'`)
		}
	}

	if m := quotedPhrase.FindStringSubmatch(query); m != nil {
		return m[1]
	}

	for _, tok := range strings.Fields(query) {
		if booleanToken.MatchString(tok) {
			continue
		}
		if len([]rune(tok)) >= 3 {
			return tok
		}
	}
	return query
}
