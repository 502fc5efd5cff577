package layout

import (
	"strings"

	"github.com/careinsight/recordpdf/fonts"
)

// Wrap breaks text into lines no wider than maxWidth at the given size.
// Lines break only at whitespace; runs of whitespace collapse to a single
// space. A word wider than maxWidth is kept whole on its own line. Blank
// text yields a single empty line.
func Wrap(text string, m fonts.Metrics, size, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 1)
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if m.Width(candidate, size) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line)
}
