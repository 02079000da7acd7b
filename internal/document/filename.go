package document

import (
	"fmt"
	"strings"
	"time"
)

const (
	divisionSlugMax = 30
	processSlugMax  = 40
)

// Filename derives the deterministic document name shared by download and
// webhook delivery: "{DRAFT_}{divisionSlug}_{processSlug}_{isoDate}.docx".
// Slugs replace every non-alphanumeric character 1:1 with '-' and are
// truncated before concatenation.
func Filename(division, processName string, isDraft bool, date time.Time) string {
	prefix := ""
	if isDraft {
		prefix = "DRAFT_"
	}
	divisionSlug := slug(fallback(division, "Unknown"), divisionSlugMax)
	processSlug := slug(fallback(processName, "Process"), processSlugMax)
	return fmt.Sprintf("%s%s_%s_%s.docx", prefix, divisionSlug, processSlug, date.Format("2006-01-02"))
}

func slug(v string, max int) string {
	var sb strings.Builder
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('-')
		}
	}
	s := sb.String()
	if len(s) > max {
		s = s[:max]
	}
	return s
}
