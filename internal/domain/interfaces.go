package domain

import "context"

// PhoneExtractor is one stage of the pipeline: it searches the first page of
// the document at path and returns the raw matched phone text. A stage that
// completes without finding a number returns ("", nil) or a soft
// KindNativeText error; hard failures carry their own kinds.
type PhoneExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocumentOpener reports whether a document can be opened at all and how
// many pages it has. The orchestrator uses it for its fail-fast check.
type DocumentOpener interface {
	PageCount(path string) (int, error)
}

// Copier writes a copy of src at dst, overwriting any existing file.
type Copier interface {
	Copy(src, dst string) error
}
