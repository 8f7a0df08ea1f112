package scanner

import "github.com/custodia-labs/gitminer/internal/core/domain"

// Statistics summarises findings by label and severity. Severity is
// recomputed from the label, so findings built elsewhere count correctly.
func Statistics(findings []domain.Finding) domain.FindingStats {
	stats := domain.FindingStats{
		Total:      len(findings),
		ByLabel:    make(map[string]int),
		BySeverity: make(map[domain.SeverityTier]int),
	}
	for _, f := range findings {
		stats.ByLabel[f.Label]++
		stats.BySeverity[Classify(f.Label)]++
	}
	stats.UniqueLabels = len(stats.ByLabel)
	return stats
}
