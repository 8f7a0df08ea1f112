package domain

import (
	"fmt"
	"strings"
)

// SeverityTier is a coarse triage bucket derived from a finding's label.
type SeverityTier string

// Severity tiers, ordered HIGH > MEDIUM > LOW.
const (
	SeverityHigh   SeverityTier = "HIGH"
	SeverityMedium SeverityTier = "MEDIUM"
	SeverityLow    SeverityTier = "LOW"
)

// AllSeverities returns the tiers from most to least severe.
func AllSeverities() []SeverityTier {
	return []SeverityTier{SeverityHigh, SeverityMedium, SeverityLow}
}

// Rank orders tiers; higher is more severe. Unknown tiers rank 0.
func (s SeverityTier) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// IsValid returns true if the tier is recognised.
func (s SeverityTier) IsValid() bool {
	return s.Rank() > 0
}

// String returns the string representation.
func (s SeverityTier) String() string {
	return string(s)
}

// ParseSeverity parses a tier name case-insensitively.
func ParseSeverity(s string) (SeverityTier, error) {
	tier := SeverityTier(strings.ToUpper(strings.TrimSpace(s)))
	if !tier.IsValid() {
		return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
	}
	return tier, nil
}

// Finding is one sensitive-looking occurrence at a specific line.
type Finding struct {
	Label       string
	MatchedText string

	// Context is the trimmed source line, capped in length.
	Context string

	// LineNumber is 1-based.
	LineNumber int

	Severity SeverityTier
}

// KeywordMatch is a line containing the literal keyword of a query.
type KeywordMatch struct {
	LineNumber int
	Line       string
}

// FindingStats summarises a set of findings.
type FindingStats struct {
	Total        int
	UniqueLabels int
	ByLabel      map[string]int
	BySeverity   map[SeverityTier]int
}
