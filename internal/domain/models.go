package domain

import (
	"fmt"
	"image"
	"math"
)

// PageGeometry holds the first page's dimensions in PDF points.
type PageGeometry struct {
	Width  float64
	Height float64
}

// ROI is the region of interest: the rectangle covering the rightmost
// WidthFrac of the page width and the topmost HeightFrac of its height.
type ROI struct {
	WidthFrac  float64
	HeightFrac float64
}

// DefaultROI covers the top-right 40% x 25% of the page, where the assigned
// number label is printed on the target documents.
func DefaultROI() ROI {
	return ROI{WidthFrac: 0.40, HeightFrac: 0.25}
}

// Validate enforces 0 < frac <= 1 on both fractions.
func (r ROI) Validate() error {
	if r.WidthFrac <= 0 || r.WidthFrac > 1 {
		return fmt.Errorf("roi width fraction %v out of range (0, 1]", r.WidthFrac)
	}
	if r.HeightFrac <= 0 || r.HeightFrac > 1 {
		return fmt.Errorf("roi height fraction %v out of range (0, 1]", r.HeightFrac)
	}
	return nil
}

// PageRect maps the ROI onto page coordinates, where the origin is the
// bottom-left corner and Y increases upward.
func (r ROI) PageRect(g PageGeometry) Rect {
	return Rect{
		X0: g.Width * (1 - r.WidthFrac),
		Y0: g.Height * (1 - r.HeightFrac),
		X1: g.Width,
		Y1: g.Height,
	}
}

// PixelRect maps the ROI onto a rendered raster of w by h pixels, where the
// origin is the top-left corner and Y increases downward.
func (r ROI) PixelRect(w, h int) image.Rectangle {
	x0 := int(math.Floor(float64(w) * (1 - r.WidthFrac)))
	y1 := int(math.Ceil(float64(h) * r.HeightFrac))
	return image.Rect(x0, 0, w, y1)
}

// Rect is an axis-aligned rectangle in page coordinates (Y up).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Token is a positioned text fragment. Layout tokens carry page coordinates
// (Y up, baseline at Y); OCR tokens additionally carry a recognition
// confidence and the recognizer's block/paragraph/line identity.
type Token struct {
	Text string

	X, Y float64 // left edge, baseline
	W, H float64 // advance width (0 when unknown), nominal height

	Confidence        float64
	Block, Par, LineN int
}

// Right returns the token's right edge.
func (t Token) Right() float64 { return t.X + t.W }

// Top returns the token's top edge in Y-up coordinates.
func (t Token) Top() float64 { return t.Y + t.H }

// Line is an ordered run of tokens sharing a baseline, with its assembled
// text.
type Line struct {
	Tokens []Token
	Text   string
	Y      float64 // baseline of the line
}
