// Package extract orchestrates the two-stage phone extraction pipeline:
// a layout pass over the document's native text, then an OCR pass over a
// rendered crop when the first pass comes up empty.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/phone"
)

// Result is the outcome of a successful run.
type Result struct {
	// Digits is the normalized 10-digit phone number.
	Digits string
	// RawMatch is the text as it appeared in the document.
	RawMatch string
	// Stage names the pipeline stage that produced the match.
	Stage string
	// CopiedTo is the path of the renamed copy, empty when copying was
	// skipped.
	CopiedTo string
}

// Service runs the pipeline for one document.
type Service struct {
	opener domain.DocumentOpener
	layout domain.PhoneExtractor
	ocr    domain.PhoneExtractor
	copier domain.Copier
	log    zerolog.Logger
}

func NewService(opener domain.DocumentOpener, layout, ocr domain.PhoneExtractor, copier domain.Copier, log zerolog.Logger) *Service {
	return &Service{
		opener: opener,
		layout: layout,
		ocr:    ocr,
		copier: copier,
		log:    log.With().Str("component", "extract").Logger(),
	}
}

// Extract finds the labeled phone number on the first page of the document
// at path and returns it normalized to 10 digits.
//
// The layout stage may fail softly (native text missing or unreadable); the
// run then falls through to OCR. OCR stage failures are hard and abort the
// run. When both stages complete without a match the error kind is
// KindNotFound.
func (s *Service) Extract(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	pages, err := s.opener.PageCount(path)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, domain.InvalidDocumentError(fmt.Sprintf("document has no pages: %s", path), nil)
	}
	s.log.Debug().Str("path", path).Int("pages", pages).Msg("document opened")

	match, stage, err := s.search(ctx, path)
	if err != nil {
		return nil, err
	}
	if match == "" {
		return nil, domain.NotFoundError("no labeled phone number on the first page")
	}

	digits, ok := phone.Normalize(match)
	if !ok {
		// The stages only return shapes the pattern accepted, so a short
		// match here means the document's number itself is truncated.
		return nil, domain.NotFoundError(fmt.Sprintf("matched %q but it has fewer than 10 digits", match))
	}

	s.log.Info().
		Str("stage", stage).
		Str("number", phone.FormatE164(digits)).
		Dur("elapsed", time.Since(start)).
		Msg("phone number extracted")

	return &Result{Digits: digits, RawMatch: match, Stage: stage}, nil
}

// Run extracts the number and then copies the document next to itself as
// <digits><ext>. A copy failure is reported after extraction succeeded, so
// the caller still has the digits in the returned Result.
func (s *Service) Run(ctx context.Context, path string) (*Result, error) {
	res, err := s.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	dst := RenamedPath(path, res.Digits)
	if err := s.copier.Copy(path, dst); err != nil {
		return res, domain.CopyError(fmt.Sprintf("copy to %s", dst), err)
	}
	res.CopiedTo = dst
	s.log.Info().Str("dst", dst).Msg("document copied")
	return res, nil
}

// search runs the stages in order and returns the first raw match along
// with the stage name that produced it.
func (s *Service) search(ctx context.Context, path string) (string, string, error) {
	match, err := s.layout.Extract(ctx, path)
	if err != nil {
		if !domain.IsKind(err, domain.KindNativeText) {
			return "", "", err
		}
		// Soft failure: the document has no usable text layer. Scanned
		// documents land here routinely.
		s.log.Debug().Err(err).Msg("layout stage unavailable, falling back to OCR")
	}
	if match != "" {
		return match, "layout", nil
	}

	match, err = s.ocr.Extract(ctx, path)
	if err != nil {
		return "", "", err
	}
	return match, "ocr", nil
}

// RenamedPath is the destination for the copied document: the extracted
// digits with the source's extension, in the source's directory.
func RenamedPath(src, digits string) string {
	ext := filepath.Ext(src)
	if ext == "" {
		ext = ".pdf"
	}
	return filepath.Join(filepath.Dir(src), digits+strings.ToLower(ext))
}
