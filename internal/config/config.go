// Package config provides configuration loading for the extractor: defaults,
// an optional YAML file, and environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/domain"
)

// Config holds all configuration for the extraction pipeline.
type Config struct {
	ROI ROIConfig `yaml:"roi"`
	OCR OCRConfig `yaml:"ocr"`
	Log LogConfig `yaml:"log"`
}

// ROIConfig selects the page region searched for the label and number.
type ROIConfig struct {
	WidthFrac  float64 `yaml:"width_frac"`
	HeightFrac float64 `yaml:"height_frac"`
}

// OCRConfig enumerates the recognition knobs the original tool set through
// process-global state; here they are explicit and passed to the engine
// binding per client.
type OCRConfig struct {
	// Languages are Tesseract trained-data names joined for recognition.
	Languages []string `yaml:"languages"`
	// PageSegMode is the Tesseract page segmentation mode; 6 treats the
	// crop as a single uniform block of text.
	PageSegMode int `yaml:"page_seg_mode"`
	// MinConfidence discards recognized words below this per-word
	// confidence (0-100). Missing or invalid confidences are discarded too.
	MinConfidence float64 `yaml:"min_confidence"`
	// RenderDPI is the rasterization resolution for page 1. 144 doubles
	// the 72-point base, matching the 2x upscale the label text needs.
	RenderDPI float64 `yaml:"render_dpi"`
	// CropScale is the additional upscale applied to the ROI crop before
	// recognition.
	CropScale float64 `yaml:"crop_scale"`
	// TessdataPrefix points the engine at its trained models. Empty means
	// the engine's compiled-in default.
	TessdataPrefix string `yaml:"tessdata_prefix"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the working defaults for the target documents.
func Default() Config {
	return Config{
		ROI: ROIConfig{WidthFrac: 0.40, HeightFrac: 0.25},
		OCR: OCRConfig{
			Languages:     []string{"spa", "eng"},
			PageSegMode:   6,
			MinConfidence: 40,
			RenderDPI:     144,
			CropScale:     1.5,
		},
		Log: LogConfig{Level: "warn", Format: "console"},
	}
}

// Load builds the configuration from defaults, overlaid with the YAML file
// at path when non-empty, then with environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv picks up the environment the original tool honored.
func (c *Config) applyEnv() {
	if v := os.Getenv("TESSDATA_PREFIX"); v != "" && c.OCR.TessdataPrefix == "" {
		c.OCR.TessdataPrefix = v
	}
	if v := os.Getenv("EXTRAE_TEL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate enforces the pipeline invariants.
func (c Config) Validate() error {
	if err := c.DomainROI().Validate(); err != nil {
		return err
	}
	if len(c.OCR.Languages) == 0 {
		return fmt.Errorf("ocr: at least one language is required")
	}
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("ocr: page_seg_mode %d out of range [0, 13]", c.OCR.PageSegMode)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		return fmt.Errorf("ocr: min_confidence %v out of range [0, 100]", c.OCR.MinConfidence)
	}
	if c.OCR.RenderDPI < 144 {
		return fmt.Errorf("ocr: render_dpi %v below the 144 needed for reliable recognition", c.OCR.RenderDPI)
	}
	if c.OCR.CropScale < 1 {
		return fmt.Errorf("ocr: crop_scale %v must be at least 1", c.OCR.CropScale)
	}
	return nil
}

// DomainROI converts the configured fractions to the domain type.
func (c Config) DomainROI() domain.ROI {
	return domain.ROI{WidthFrac: c.ROI.WidthFrac, HeightFrac: c.ROI.HeightFrac}
}
