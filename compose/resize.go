package compose

import (
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// fit scales img down so it fits in maxWidth x maxHeight, keeping its aspect
// ratio. A zero bound leaves that axis free. Pictures that already fit are
// returned untouched.
func fit(logger *slog.Logger, img image.Image, maxWidth, maxHeight int) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	if srcWidth == 0 || srcHeight == 0 {
		return img
	}

	scale := 1.0
	if maxWidth > 0 {
		scale = math.Min(scale, float64(maxWidth)/srcWidth)
	}
	if maxHeight > 0 {
		scale = math.Min(scale, float64(maxHeight)/srcHeight)
	}
	if scale >= 1 {
		return img
	}

	destWidth := max(1, int(math.Round(srcWidth*scale)))
	destHeight := max(1, int(math.Round(srcHeight*scale)))

	logger.Info("resizing", "width", destWidth, "height", destHeight)
	dest := image.NewNRGBA(image.Rect(0, 0, destWidth, destHeight))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)

	return dest
}
