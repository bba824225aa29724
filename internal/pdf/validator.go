// Package pdf gives the pipeline its view of the source document: input
// validation, the native structured-text layout of page 1, and a raster
// renderer for the OCR fallback.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
)

// Validator provides input validation for PDF paths.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePDFPath checks that path names a readable PDF file. Every failure
// is an invalid-document error so the caller can fail fast before any
// extraction work.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.InvalidDocumentError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.InvalidDocumentError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.InvalidDocumentError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.InvalidDocumentError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return domain.InvalidDocumentError(fmt.Sprintf("file is not a PDF (has extension %q)", ext), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.InvalidDocumentError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}
