package compose

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
)

// remap redraws img using only the colors of pal.
func remap(logger *slog.Logger, img image.Image, pal color.Palette, dither bool) image.Image {
	logger.Info("applying palette", "colors", len(pal), "dither", dither)
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)

	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	return dest
}
