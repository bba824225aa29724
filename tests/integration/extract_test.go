package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/extract"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/layout"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/observability"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/pdf"
)

// nativeOpener counts pages without cgo so the layout-stage tests stay
// self-contained.
type nativeOpener struct{}

func (nativeOpener) PageCount(path string) (int, error) {
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		return 0, domain.InvalidDocumentError("open document", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// failingStage stands in for OCR in tests that must resolve at the layout
// stage.
type failingStage struct{ t *testing.T }

func (s failingStage) Extract(context.Context, string) (string, error) {
	s.t.Fatal("OCR stage must not be reached")
	return "", nil
}

// emptyStage is an OCR stand-in that finds nothing.
type emptyStage struct{}

func (emptyStage) Extract(context.Context, string) (string, error) { return "", nil }

func newService(t *testing.T, ocrStage domain.PhoneExtractor) *extract.Service {
	log := observability.Default()
	return extract.NewService(
		nativeOpener{},
		layout.NewExtractor(pdf.NewLayoutReader(), domain.DefaultROI(), log),
		ocrStage,
		extract.FileCopier{},
		log,
	)
}

func TestLayoutStageEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "factura.pdf",
		textRun{50, 760, "Factura electronica"},
		textRun{400, 750, "Numero asignado: 829-612-3456"},
		textRun{50, 80, "Pie de pagina 809 000 0000"},
	)

	res, err := newService(t, failingStage{t}).Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "8296123456", res.Digits)
	assert.Equal(t, "layout", res.Stage)

	copied := filepath.Join(dir, "8296123456.pdf")
	assert.Equal(t, copied, res.CopiedTo)
	want, _ := os.ReadFile(path)
	got, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNumberOnFollowingLine(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "factura.pdf",
		textRun{400, 760, "Numero asignado:"},
		textRun{400, 744, "(809) 555-1234"},
	)

	res, err := newService(t, failingStage{t}).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "8095551234", res.Digits)
}

func TestNumberOutsideRegionIgnored(t *testing.T) {
	// The label sits bottom-left, outside the searched region; with OCR
	// finding nothing the run must end in not_found.
	dir := t.TempDir()
	path := writePDF(t, dir, "factura.pdf",
		textRun{50, 80, "Numero asignado: 829-612-3456"},
	)

	_, err := newService(t, emptyStage{}).Extract(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestRepeatRunOverwritesCopy(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "factura.pdf",
		textRun{400, 750, "Numero asignado: 849 555 0123"},
	)

	svc := newService(t, failingStage{t})
	_, err := svc.Run(context.Background(), path)
	require.NoError(t, err)
	res, err := svc.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "8495550123", res.Digits)
}

func TestInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nota.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))

	_, err := newService(t, emptyStage{}).Extract(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidDocument, domain.KindOf(err))
}
