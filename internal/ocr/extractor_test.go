package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/config"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/observability"
)

func TestFilterConfidence(t *testing.T) {
	words := []Word{
		{Text: "Numero", Confidence: 91},
		{Text: "ruido", Confidence: 12},
		{Text: "negativo", Confidence: -1},
		{Text: "nan", Confidence: math.NaN()},
		{Text: "  ", Confidence: 99},
		{Text: "asignado:", Confidence: 40},
	}
	kept := FilterConfidence(words, 40)
	require.Len(t, kept, 2)
	assert.Equal(t, "Numero", kept[0].Text)
	assert.Equal(t, "asignado:", kept[1].Text)
}

func TestGroupWords(t *testing.T) {
	box := func(x int) image.Rectangle { return image.Rect(x, 0, x+10, 12) }
	words := []Word{
		{Text: "asignado:", Block: 1, Par: 1, Line: 1, Box: box(80)},
		{Text: "829-612-3456", Block: 1, Par: 1, Line: 2, Box: box(10)},
		{Text: "Numero", Block: 1, Par: 1, Line: 1, Box: box(10)},
	}
	lines := GroupWords(words)
	require.Equal(t, []string{"Numero asignado:", "829-612-3456"}, lines)
}

func TestSearchPlainText(t *testing.T) {
	text := "Factura\nNúmero asignado: 809 555 1234\nSanto Domingo"
	m, ok := SearchPlainText(text)
	require.True(t, ok)
	assert.Equal(t, "809 555 1234", m)
}

func TestSearchPlainTextFollowingLine(t *testing.T) {
	text := "Número asignado:\n(849) 555-0123"
	m, ok := SearchPlainText(text)
	require.True(t, ok)
	assert.Contains(t, m, "849")
}

func TestSearchPlainTextNoLabelFallsBackToWholeBlock(t *testing.T) {
	_, ok := SearchPlainText("llamar al 829.612.3456 hoy")
	assert.True(t, ok)
}

func TestSearchPlainTextNothing(t *testing.T) {
	_, ok := SearchPlainText("sin numeros por aqui")
	assert.False(t, ok)
}

func TestEnhanceGeometry(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	region := image.Rect(120, 0, 200, 25)
	out := Enhance(src, region, 1.5)
	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 38, out.Bounds().Dy())
}

func TestEnhanceEmptyRegion(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	out := Enhance(src, image.Rect(20, 20, 30, 30), 1.5)
	assert.True(t, out.Bounds().Empty())
}

type stubRenderer struct {
	img image.Image
	err error
}

func (s *stubRenderer) RenderFirstPage(string, float64) (image.Image, error) {
	return s.img, s.err
}

type stubRecognizer struct {
	words   []Word
	wordErr error
	plain   string
	textErr error
}

func (s *stubRecognizer) Words([]byte) ([]Word, error)     { return s.words, s.wordErr }
func (s *stubRecognizer) PlainText([]byte) (string, error) { return s.plain, s.textErr }

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(90, 5, color.Black)
	return img
}

func testExtractor(r Renderer, rec Recognizer) *Extractor {
	return NewExtractor(r, rec, domain.DefaultROI(), config.Default().OCR, observability.Default())
}

func TestExtractStructuredHit(t *testing.T) {
	box := func(x int) image.Rectangle { return image.Rect(x, 0, x+10, 12) }
	rec := &stubRecognizer{words: []Word{
		{Text: "Numero", Confidence: 90, Block: 1, Par: 1, Line: 1, Box: box(0)},
		{Text: "asignado:", Confidence: 88, Block: 1, Par: 1, Line: 1, Box: box(40)},
		{Text: "809-555-1234", Confidence: 85, Block: 1, Par: 1, Line: 2, Box: box(0)},
	}}
	ex := testExtractor(&stubRenderer{img: testImage()}, rec)

	m, err := ex.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "809-555-1234", m)
}

func TestExtractPlainTextFallback(t *testing.T) {
	rec := &stubRecognizer{
		words: nil, // structured pass recognized nothing usable
		plain: "Número asignado: 829 612 3456",
	}
	ex := testExtractor(&stubRenderer{img: testImage()}, rec)

	m, err := ex.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "829 612 3456", m)
}

func TestExtractRenderFailureIsHard(t *testing.T) {
	renderErr := domain.OCREngineError("render first page", errors.New("mupdf: broken"))
	ex := testExtractor(&stubRenderer{err: renderErr}, &stubRecognizer{})

	_, err := ex.Extract(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.Equal(t, domain.KindOCREngine, domain.KindOf(err))
}

func TestExtractRecognitionFailureIsHard(t *testing.T) {
	rec := &stubRecognizer{wordErr: errors.New("could not initialize tesseract")}
	ex := testExtractor(&stubRenderer{img: testImage()}, rec)

	_, err := ex.Extract(context.Background(), "doc.pdf")
	require.Error(t, err)
	assert.Equal(t, domain.KindOCREngine, domain.KindOf(err))
}

func TestExtractNotFoundIsSoft(t *testing.T) {
	rec := &stubRecognizer{plain: "nada que ver"}
	ex := testExtractor(&stubRenderer{img: testImage()}, rec)

	m, err := ex.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Empty(t, m)
}
