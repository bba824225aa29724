// Package ocr is the raster fallback stage: it renders the page region,
// enhances the crop, and recognizes text through the Tesseract binding.
package ocr

import (
	"image"
	"math"

	"github.com/sunshineplan/imgconv"
	xdraw "golang.org/x/image/draw"
)

// unsharpAmount controls how strongly the high-frequency residual is added
// back when sharpening the crop.
const unsharpAmount = 1.0

// Enhance prepares a page raster for recognition: crop to the region,
// upscale, convert to grayscale, and sharpen. Small low-contrast label text
// recognizes poorly without the extra scale and the unsharp pass.
func Enhance(src image.Image, region image.Rectangle, scale float64) *image.Gray {
	region = region.Intersect(src.Bounds())
	if region.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}

	crop := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	xdraw.Copy(crop, image.Point{}, src, region, xdraw.Src, nil)

	if scale > 1 {
		w := int(math.Round(float64(crop.Rect.Dx()) * scale))
		h := int(math.Round(float64(crop.Rect.Dy()) * scale))
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(scaled, scaled.Rect, crop, crop.Rect, xdraw.Src, nil)
		crop = scaled
	}

	return unsharp(imgconv.ToGray(crop).(*image.Gray), unsharpAmount)
}

// unsharp applies an unsharp mask: a 3x3 gaussian blur subtracted from the
// original, scaled and added back.
func unsharp(img *image.Gray, amount float64) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			orig := float64(img.GrayAt(x, y).Y)
			blur := gauss3(img, x, y)
			v := orig + amount*(orig-blur)
			out.Pix[out.PixOffset(x, y)] = clampByte(v)
		}
	}
	return out
}

// gauss3 samples a 3x3 gaussian (1-2-1 separable) around (x, y), clamping at
// the image edge.
func gauss3(img *image.Gray, x, y int) float64 {
	b := img.Bounds()
	var sum, weight float64
	kernel := [3]float64{1, 2, 1}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			px, py := x+dx, y+dy
			if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
				continue
			}
			w := kernel[dx+1] * kernel[dy+1]
			sum += w * float64(img.GrayAt(px, py).Y)
			weight += w
		}
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
