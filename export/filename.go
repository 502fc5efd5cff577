package export

import (
	"strings"
	"time"
)

// Filename derives the artifact name
// <product>_<category>_<subject or fallback>_<YYYY-MM-DD>.<ext>. Characters
// outside [A-Za-z0-9._-] in any part become '-'. The date is taken in UTC.
func Filename(product, category, subject, fallback string, now time.Time, ext string) string {
	if strings.TrimSpace(subject) == "" {
		subject = fallback
	}
	parts := []string{
		sanitize(product),
		sanitize(category),
		sanitize(subject),
		now.UTC().Format("2006-01-02"),
	}
	name := strings.Join(parts, "_")
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return name
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}
