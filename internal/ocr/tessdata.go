package ocr

import (
	"os"
	"path/filepath"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/config"
)

// ResolveTessdata picks the trained-data directory handed to the engine:
// the configured prefix (config file or TESSDATA_PREFIX) when it actually
// holds models for every requested language, then a tessdata directory next
// to the executable. Empty means the engine's compiled-in default.
func ResolveTessdata(cfg config.OCRConfig) string {
	var candidates []string
	if cfg.TessdataPrefix != "" {
		candidates = append(candidates, cfg.TessdataPrefix)
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "tessdata"))
	}

	for _, dir := range candidates {
		if hasModels(dir, cfg.Languages) {
			return dir
		}
	}
	return ""
}

func hasModels(dir string, languages []string) bool {
	for _, lang := range languages {
		if _, err := os.Stat(filepath.Join(dir, lang+".traineddata")); err != nil {
			return false
		}
	}
	return true
}
