package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/config"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/layout"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/phone"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/textnorm"
)

// plainTextWindow bounds how far past the label phrase the free-text pass
// searches for the number.
const plainTextWindow = 200

// Renderer rasterizes the first page of a document.
type Renderer interface {
	RenderFirstPage(path string, dpi float64) (image.Image, error)
}

// Recognizer is the engine binding surface the extractor needs: structured
// words and plain text over an encoded image.
type Recognizer interface {
	Words(img []byte) ([]Word, error)
	PlainText(img []byte) (string, error)
}

// Extractor is the OCR fallback stage. Unlike the native-text stage its
// infrastructure failures are hard: a missing engine or language model is an
// operator problem, not an empty page.
type Extractor struct {
	renderer Renderer
	rec      Recognizer
	roi      domain.ROI
	cfg      config.OCRConfig
	log      zerolog.Logger
}

// NewExtractor creates the OCR-based extraction stage.
func NewExtractor(renderer Renderer, rec Recognizer, roi domain.ROI, cfg config.OCRConfig, log zerolog.Logger) *Extractor {
	return &Extractor{
		renderer: renderer,
		rec:      rec,
		roi:      roi,
		cfg:      cfg,
		log:      log.With().Str("stage", "ocr").Logger(),
	}
}

// Extract renders the page region, recognizes it, and returns the raw
// matched phone text, ("", nil) when nothing was found, or a hard error.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := e.renderer.RenderFirstPage(path, e.cfg.RenderDPI)
	if err != nil {
		return "", err
	}
	bounds := img.Bounds()
	region := e.roi.PixelRect(bounds.Dx(), bounds.Dy()).Add(bounds.Min)
	enhanced := Enhance(img, region, e.cfg.CropScale)

	var buf bytes.Buffer
	if err := png.Encode(&buf, enhanced); err != nil {
		return "", domain.OCREngineError("encode region crop", err)
	}
	crop := buf.Bytes()

	words, err := e.rec.Words(crop)
	if err != nil {
		return "", domain.OCREngineError("structured recognition", err)
	}
	kept := FilterConfidence(words, e.cfg.MinConfidence)
	lines := GroupWords(kept)
	e.log.Debug().Int("words", len(words)).Int("kept", len(kept)).Int("lines", len(lines)).Msg("structured recognition done")

	if m, ok := layout.FindInLines(lines); ok {
		return m, nil
	}

	// One plain pass over the same crop catches label text the word-level
	// output fragmented past recognition.
	text, err := e.rec.PlainText(crop)
	if err != nil {
		return "", domain.OCREngineError("free-text recognition", err)
	}
	if m, ok := SearchPlainText(text); ok {
		return m, nil
	}
	return "", nil
}

// FilterConfidence drops words below the validity threshold; a missing or
// invalid confidence counts as below it.
func FilterConfidence(words []Word, threshold float64) []Word {
	kept := make([]Word, 0, len(words))
	for _, w := range words {
		if math.IsNaN(w.Confidence) || w.Confidence < 0 || w.Confidence < threshold {
			continue
		}
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// GroupWords reassembles recognized words into line texts: words sharing a
// block/paragraph/line identity form one line ordered left to right, and
// lines follow the recognizer's identity order, which tracks top-to-bottom
// reading order.
func GroupWords(words []Word) []string {
	type lineKey struct{ block, par, line int }

	grouped := make(map[lineKey][]Word)
	var keys []lineKey
	for _, w := range words {
		k := lineKey{w.Block, w.Par, w.Line}
		if _, seen := grouped[k]; !seen {
			keys = append(keys, k)
		}
		grouped[k] = append(grouped[k], w)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.block != b.block {
			return a.block < b.block
		}
		if a.par != b.par {
			return a.par < b.par
		}
		return a.line < b.line
	})

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		ws := grouped[k]
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Box.Min.X < ws[j].Box.Min.X })
		parts := make([]string, len(ws))
		for i, w := range ws {
			parts[i] = w.Text
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

// SearchPlainText locates the label phrase in normalized free text and
// searches first the rest of its line, then a fixed window after it. Text
// where the recognizer dropped the label entirely is scanned whole as a
// last resort.
func SearchPlainText(text string) (string, bool) {
	norm := textnorm.Normalize(text)
	label := labelPhrase()

	idx := strings.Index(norm, label)
	if idx < 0 {
		return phone.Find(norm)
	}

	after := norm[idx+len(label):]
	firstLine := after
	if nl := strings.IndexByte(after, '\n'); nl >= 0 {
		firstLine = after[:nl]
	}
	if m, ok := phone.Find(firstLine); ok {
		return m, true
	}
	window := after
	if len(window) > plainTextWindow {
		window = window[:plainTextWindow]
	}
	return phone.Find(window)
}

func labelPhrase() string {
	return textnorm.Normalize("Número asignado")
}
