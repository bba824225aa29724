package pdf

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
)

// LayoutReader decodes page 1's structured text layout into positioned
// tokens, without rasterizing anything.
type LayoutReader struct{}

// NewLayoutReader creates a layout reader.
func NewLayoutReader() *LayoutReader {
	return &LayoutReader{}
}

// FirstPageTokens returns the page geometry and the positioned glyph runs of
// the document's first page. Coordinates are PDF points with Y increasing
// upward. A document with no first-page layout or no extractable text yields
// a soft native-text error; decode panics from malformed content streams are
// contained and reported the same way.
func (r *LayoutReader) FirstPageTokens(path string) (geom domain.PageGeometry, tokens []domain.Token, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			geom, tokens = domain.PageGeometry{}, nil
			err = domain.NativeTextError("text layout decode failed", fmt.Errorf("panic: %v", rec))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return domain.PageGeometry{}, nil, domain.NativeTextError("open for text layout", err)
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return domain.PageGeometry{}, nil, domain.NativeTextError("document has no pages", nil)
	}
	page := reader.Page(1)
	if page.V.IsNull() {
		return domain.PageGeometry{}, nil, domain.NativeTextError("first page has no layout", nil)
	}

	content := page.Content()
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		tokens = append(tokens, domain.Token{
			Text: t.S,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
			H:    t.FontSize,
		})
	}
	if len(tokens) == 0 {
		return domain.PageGeometry{}, nil, domain.NativeTextError("first page has no extractable text", nil)
	}

	geom = pageGeometry(page, tokens)
	return geom, tokens, nil
}

// pageGeometry reads the MediaBox, walking up the page tree when the entry
// is inherited. Documents where no MediaBox resolves fall back to the extent
// of the text itself, which keeps the ROI fractions meaningful.
func pageGeometry(page pdf.Page, tokens []domain.Token) domain.PageGeometry {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() != 4 {
			continue
		}
		w := mb.Index(2).Float64() - mb.Index(0).Float64()
		h := mb.Index(3).Float64() - mb.Index(1).Float64()
		if w > 0 && h > 0 {
			return domain.PageGeometry{Width: w, Height: h}
		}
	}

	var maxX, maxY float64
	for _, t := range tokens {
		if r := t.Right(); r > maxX {
			maxX = r
		}
		if top := t.Top(); top > maxY {
			maxY = top
		}
	}
	return domain.PageGeometry{Width: maxX, Height: maxY}
}
