package scanner

import (
	"strings"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// DefaultMaxContextLength caps the context stored with a finding.
const DefaultMaxContextLength = 500

// Engine runs the generic and label passes of a Registry over text.
// It is read-only and safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over reg. A nil registry scans nothing.
func NewEngine(reg *Registry) *Engine {
	if reg == nil {
		reg = &Registry{}
	}
	return &Engine{registry: reg}
}

// Registry returns the registry the engine scans with.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Scan returns every finding in lines, generic pass first.
// maxContext <= 0 falls back to DefaultMaxContextLength.
func (e *Engine) Scan(lines []string, maxContext int) []domain.Finding {
	if maxContext <= 0 {
		maxContext = DefaultMaxContextLength
	}

	var findings []domain.Finding

	for _, p := range e.registry.patterns {
		for i, line := range lines {
			for _, m := range p.Matcher.FindAllString(line, -1) {
				findings = append(findings, newFinding(p.Name, m, line, i+1, maxContext))
			}
		}
	}

	for i, line := range lines {
		for _, lp := range e.registry.labels {
			for _, loc := range lp.Matcher.FindAllStringIndex(line, -1) {
				matched := line[loc[0]:loc[1]]
				if value, ok := ExtractValue(line[loc[1]:]); ok {
					matched = matched + "=" + value
				}
				findings = append(findings, newFinding(lp.Label, matched, line, i+1, maxContext))
			}
		}
	}

	return findings
}

// ScanText splits text into lines and scans it.
func (e *Engine) ScanText(text string, maxContext int) []domain.Finding {
	return e.Scan(SplitLines(text), maxContext)
}

// ScanBytes decodes data and scans it. Decoding never fails.
func (e *Engine) ScanBytes(data []byte, maxContext int) []domain.Finding {
	return e.ScanText(DecodeText(data), maxContext)
}

func newFinding(label, matched, line string, lineNo, maxContext int) domain.Finding {
	return domain.Finding{
		Label:       label,
		MatchedText: matched,
		Context:     truncateRunes(strings.TrimSpace(line), maxContext),
		LineNumber:  lineNo,
		Severity:    Classify(label),
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
