package layout

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
)

// TokenSource yields the first page's geometry and positioned tokens.
type TokenSource interface {
	FirstPageTokens(path string) (domain.PageGeometry, []domain.Token, error)
}

// Extractor is the native-text stage: it reads the page's structured layout,
// restricts it to the region of interest, reconstructs reading order, and
// runs the label/number search. All of its failures are soft.
type Extractor struct {
	source TokenSource
	roi    domain.ROI
	log    zerolog.Logger
}

// NewExtractor creates the layout-based extraction stage.
func NewExtractor(source TokenSource, roi domain.ROI, log zerolog.Logger) *Extractor {
	return &Extractor{source: source, roi: roi, log: log.With().Str("stage", "layout").Logger()}
}

// Extract returns the raw matched phone text from the document's native
// layout, a soft native-text error when the page has nothing to search, or
// ("", nil) when the region simply holds no labeled number.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	geom, tokens, err := e.source.FirstPageTokens(path)
	if err != nil {
		return "", err
	}

	region := e.roi.PageRect(geom)
	inRegion := FilterROI(tokens, region)
	e.log.Debug().
		Int("tokens", len(tokens)).
		Int("in_region", len(inRegion)).
		Float64("page_w", geom.Width).
		Float64("page_h", geom.Height).
		Msg("native layout decoded")
	if len(inRegion) == 0 {
		return "", nil
	}

	lines := BuildLines(inRegion)
	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.Text
	}

	if m, ok := FindInLines(texts); ok {
		e.log.Debug().Str("match", m).Msg("label and number found in native text")
		return m, nil
	}
	return "", nil
}
