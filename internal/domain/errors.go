package domain

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so callers can branch on outcome.
type Kind string

const (
	// KindInvalidDocument: document missing, unreadable, or zero pages.
	KindInvalidDocument Kind = "invalid_document"
	// KindNativeText: no extractable structured text, or the label was not
	// found via the layout scan. Soft; drives the OCR fallback and is never
	// surfaced to the end caller directly.
	KindNativeText Kind = "native_text"
	// KindOCREngine: renderer, recognition engine or language models
	// unavailable or erroring. Hard, distinct from "not found".
	KindOCREngine Kind = "ocr_engine"
	// KindNotFound: both stages completed without a valid phone match.
	KindNotFound Kind = "not_found"
	// KindCopy: the delegated file-copy operation failed after the number
	// itself was successfully derived.
	KindCopy Kind = "copy"
)

// Error is a pipeline failure tagged with its taxonomy kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a tagged pipeline error.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Constructors, one per taxonomy kind.

func InvalidDocumentError(message string, err error) *Error {
	return NewError(KindInvalidDocument, message, err)
}

func NativeTextError(message string, err error) *Error {
	return NewError(KindNativeText, message, err)
}

func OCREngineError(message string, err error) *Error {
	return NewError(KindOCREngine, message, err)
}

func NotFoundError(message string) *Error {
	return NewError(KindNotFound, message, nil)
}

func CopyError(message string, err error) *Error {
	return NewError(KindCopy, message, err)
}

// KindOf returns the taxonomy kind of err, or "" for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
