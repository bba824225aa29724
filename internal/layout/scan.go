package layout

import (
	"strings"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/phone"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/textnorm"
)

// Label fragments that must both appear, in any arrangement, in a line's
// normalized text for it to count as the label line.
const (
	labelFragmentA = "numero"
	labelFragmentB = "asignado"
)

// IsLabelLine reports whether the line's normalized text contains both label
// fragments.
func IsLabelLine(text string) bool {
	n := textnorm.Normalize(text)
	return strings.Contains(n, labelFragmentA) && strings.Contains(n, labelFragmentB)
}

// FindInLines scans line texts in reading order for the label line, then
// searches the candidate window: the label line's tail after its first
// colon, joined with the immediately following line. When that pair carries
// no match the scan widens to the label line and everything after it. The
// lines before the label are never searched.
func FindInLines(lines []string) (string, bool) {
	for i, text := range lines {
		if !IsLabelLine(text) {
			continue
		}
		candidate := afterColon(text)
		if i+1 < len(lines) {
			candidate += "\n" + lines[i+1]
		}
		if m, ok := phone.Find(candidate); ok {
			return m, true
		}
		if m, ok := phone.Find(strings.Join(lines[i:], "\n")); ok {
			return m, true
		}
		return "", false
	}
	return "", false
}

// afterColon returns the text following the first colon, or "" when the line
// has none.
func afterColon(text string) string {
	if _, tail, found := strings.Cut(text, ":"); found {
		return tail
	}
	return ""
}
