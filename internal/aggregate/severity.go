package aggregate

import (
	"strings"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// DefaultSeverity is assigned to flags that match no keyword
const DefaultSeverity = models.SeverityMedium

var severityKeywords = []struct {
	keyword  string
	severity models.Severity
}{
	{"scam", models.SeverityHigh},
	{"lazy fork", models.SeverityHigh},
	{"unresolved security", models.SeverityHigh},
	{"inactive", models.SeverityMedium},
	{"single contributor", models.SeverityMedium},
}

// ClassifySeverity assigns a severity to a flag message by case-insensitive keyword match
func ClassifySeverity(message string) models.Severity {
	lower := strings.ToLower(message)
	for _, k := range severityKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.severity
		}
	}
	return DefaultSeverity
}
