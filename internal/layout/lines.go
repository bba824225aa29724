// Package layout reconstructs reading order from positioned text tokens and
// performs the label/number search shared by the native-text and OCR stages.
package layout

import (
	"sort"
	"strings"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
)

// baselineTolerance groups tokens into one line when their baselines differ
// by no more than this fraction of the token height.
const baselineTolerance = 0.5

// wordGapFactor inserts a space between adjacent tokens when the horizontal
// gap exceeds this fraction of the token height. Glyph runs with unknown
// widths concatenate as-is, which preserves their embedded spaces.
const wordGapFactor = 0.3

// FilterROI keeps the tokens whose box touches the region: right edge at or
// past the region's left boundary and top edge at or above its bottom
// boundary, in Y-up page coordinates.
func FilterROI(tokens []domain.Token, roi domain.Rect) []domain.Token {
	var kept []domain.Token
	for _, t := range tokens {
		if t.Right() >= roi.X0 && t.Top() >= roi.Y0 {
			kept = append(kept, t)
		}
	}
	return kept
}

// BuildLines groups tokens by baseline proximity and returns the lines in
// reading order: top to bottom, then left to right. Token order within a
// line is by horizontal position, stable so glyph runs at the same X keep
// their stream order.
func BuildLines(tokens []domain.Token) []domain.Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]domain.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines []domain.Line
	current := domain.Line{Tokens: []domain.Token{sorted[0]}, Y: sorted[0].Y}
	for _, t := range sorted[1:] {
		if current.Y-t.Y <= tolerance(t) {
			current.Tokens = append(current.Tokens, t)
			continue
		}
		lines = append(lines, finishLine(current))
		current = domain.Line{Tokens: []domain.Token{t}, Y: t.Y}
	}
	lines = append(lines, finishLine(current))

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Y != lines[j].Y {
			return lines[i].Y > lines[j].Y
		}
		return lines[i].Tokens[0].X < lines[j].Tokens[0].X
	})
	return lines
}

func tolerance(t domain.Token) float64 {
	if t.H > 0 {
		return t.H * baselineTolerance
	}
	return baselineTolerance
}

func finishLine(line domain.Line) domain.Line {
	sort.SliceStable(line.Tokens, func(i, j int) bool { return line.Tokens[i].X < line.Tokens[j].X })

	var b strings.Builder
	for i, t := range line.Tokens {
		if i > 0 {
			prev := line.Tokens[i-1]
			if prev.W > 0 && t.X-prev.Right() > wordGapFactor*max(t.H, 1) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.Text)
	}
	line.Text = b.String()
	return line
}
