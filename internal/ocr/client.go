package ocr

import (
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/fzorrilla-ml/extrae-tel-pdf/internal/config"
)

// Word is a recognized token: its text, confidence (0-100), the
// recognizer's block/paragraph/line identity, and its pixel box.
type Word struct {
	Text       string
	Confidence float64
	Block      int
	Par        int
	Line       int
	Box        image.Rectangle
}

// Client wraps the Tesseract binding. Each call builds a fresh engine
// client, applies the explicit configuration, and tears it down, so nothing
// leaks across invocations and no process-global state is touched.
type Client struct {
	cfg config.OCRConfig
}

// NewClient creates a recognition client with the given configuration.
func NewClient(cfg config.OCRConfig) *Client {
	return &Client{cfg: cfg}
}

// Words runs structured recognition over an encoded image and returns the
// recognized tokens with confidences and line identities.
func (c *Client) Words(img []byte) ([]Word, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := c.configure(client, img); err != nil {
		return nil, err
	}
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("word recognition: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       b.Word,
			Confidence: b.Confidence,
			Block:      b.BlockNum,
			Par:        b.ParNum,
			Line:       b.LineNum,
			Box:        b.Box,
		})
	}
	return words, nil
}

// PlainText runs a free-text recognition pass over an encoded image.
func (c *Client) PlainText(img []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := c.configure(client, img); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("text recognition: %w", err)
	}
	return text, nil
}

func (c *Client) configure(client *gosseract.Client, img []byte) error {
	if c.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(c.cfg.TessdataPrefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(c.cfg.Languages...); err != nil {
		return fmt.Errorf("set languages %v: %w", c.cfg.Languages, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(c.cfg.PageSegMode)); err != nil {
		return fmt.Errorf("set page segmentation mode %d: %w", c.cfg.PageSegMode, err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	return nil
}
