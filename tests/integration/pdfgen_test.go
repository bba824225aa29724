package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildPDF assembles a minimal single-page PDF with an uncompressed content
// stream, computing the xref offsets as it goes. Enough structure for both
// MuPDF and the native text reader to open it.
func buildPDF(contentStream string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(contentStream), contentStream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefAt := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefAt)
	return []byte(b.String())
}

// writePDF places text runs on a 612x792 page and writes the file under dir.
func writePDF(t *testing.T, dir, name string, runs ...textRun) string {
	t.Helper()
	var ops strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&ops, "BT /F1 12 Tf %g %g Td (%s) Tj ET\n", r.x, r.y, r.text)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildPDF(strings.TrimRight(ops.String(), "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

type textRun struct {
	x, y float64
	text string
}
