package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
)

// Renderer rasterizes pages through MuPDF. It also backs the orchestrator's
// fail-fast open/page-count check, since an unopenable document and a
// zero-page document are both detected here.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// PageCount opens the document and reports its page count.
func (r *Renderer) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, domain.InvalidDocumentError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// RenderFirstPage rasterizes page 1 at the given DPI. A rendering error is a
// hard failure: unlike missing native text, it means the fallback stage
// cannot run at all.
func (r *Renderer) RenderFirstPage(path string, dpi float64) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, domain.InvalidDocumentError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, domain.InvalidDocumentError("document has no pages", nil)
	}

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return nil, domain.OCREngineError("render first page", err)
	}
	return img, nil
}
