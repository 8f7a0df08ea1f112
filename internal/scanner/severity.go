package scanner

import (
	"strings"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

var (
	highIndicators = []string{
		"PRIVATE", "SECRET", "AWS", "TOKEN",
		"SSH_PRIVATE_KEY", "PRIVATE_KEY", "CERTIFICATE",
	}
	mediumIndicators = []string{
		"PASSWORD", "PASS", "JWT", "API",
		"GITHUB_TOKEN", "ACCESS_KEY", "OAUTH",
	}
)

// Classify maps a label to a severity tier by case-insensitive substring
// match. HIGH indicators are checked first, so "GITHUB_TOKEN" is HIGH.
func Classify(label string) domain.SeverityTier {
	upper := strings.ToUpper(label)
	if containsAny(upper, highIndicators) {
		return domain.SeverityHigh
	}
	if containsAny(upper, mediumIndicators) {
		return domain.SeverityMedium
	}
	return domain.SeverityLow
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
