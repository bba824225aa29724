package extract

import (
	"fmt"
	"io"
	"os"
)

// FileCopier copies documents on the local filesystem. An existing file at
// the destination is overwritten, which makes repeat runs over the same
// document idempotent.
type FileCopier struct{}

func (FileCopier) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return out.Close()
}
