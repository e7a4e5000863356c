package frame

import (
	"image"
	"image/color"

	"paleatra/layout"
)

// DefaultBackground is the beige the frame is filled with.
var DefaultBackground = color.NRGBA{R: 255, G: 252, B: 234, A: 255}

type Options struct {
	Border     int
	Background color.Color
}

func DefaultOptions() Options {
	return Options{
		Border:     layout.DefaultBorder,
		Background: DefaultBackground,
	}
}

// Canvas is a framed picture under construction: a background-filled buffer
// with room for the source image and its palette strip.
type Canvas struct {
	img    *image.NRGBA
	layout layout.Frame
}

// New allocates the canvas for a width x height source and a palette of boxes
// swatches on side p.
func New(width, height, boxes int, p layout.Placement, opts Options) *Canvas {
	if opts.Background == nil {
		opts.Background = DefaultBackground
	}
	f := layout.NewFrame(width, height, boxes, p, opts.Border)

	img := image.NewNRGBA(image.Rectangle{Max: f.Canvas})
	bg := color.NRGBAModel.Convert(opts.Background).(color.NRGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = bg.R
		img.Pix[i+1] = bg.G
		img.Pix[i+2] = bg.B
		img.Pix[i+3] = bg.A
	}

	return &Canvas{img: img, layout: f}
}

// CopySource writes src into the canvas, border pixels from the edge and
// shifted past a leading palette. Pixels landing outside the region reserved
// for the source are dropped, so a border other than the canvas one never
// reaches the palette region.
func (c *Canvas) CopySource(border int, src image.Image) {
	origin := image.Pt(border, border).Add(c.layout.Offset())
	c.blit(origin, src, c.layout.SourceRect())
}

// OverlayPalette writes the palette strip at the divider point, replacing the
// pixels beneath it.
func (c *Canvas) OverlayPalette(strip image.Image) {
	c.blit(c.layout.Divider, strip, c.img.Bounds())
}

// blit copies src verbatim with its top-left corner at dp. Pixels falling
// outside clip or the canvas are dropped.
func (c *Canvas) blit(dp image.Point, src image.Image, clip image.Rectangle) {
	sb := src.Bounds()
	dr := image.Rectangle{Min: dp, Max: dp.Add(sb.Size())}.Intersect(clip).Intersect(c.img.Bounds())
	if dr.Empty() {
		return
	}
	sp := sb.Min.Add(dr.Min.Sub(dp))

	if s, ok := src.(*image.NRGBA); ok {
		n := dr.Dx() * 4
		for y := 0; y < dr.Dy(); y++ {
			d := c.img.PixOffset(dr.Min.X, dr.Min.Y+y)
			o := s.PixOffset(sp.X, sp.Y+y)
			copy(c.img.Pix[d:d+n], s.Pix[o:o+n])
		}
		return
	}

	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			c.img.Set(dr.Min.X+x, dr.Min.Y+y, src.At(sp.X+x, sp.Y+y))
		}
	}
}

// Dimensions returns the canvas width and height.
func (c *Canvas) Dimensions() (int, int) {
	return c.layout.Canvas.X, c.layout.Canvas.Y
}

// Divider returns the top-left corner of the palette region.
func (c *Canvas) Divider() image.Point {
	return c.layout.Divider
}

// Layout returns the geometry the canvas was built with.
func (c *Canvas) Layout() layout.Frame {
	return c.layout
}

func (c *Canvas) Image() *image.NRGBA {
	return c.img
}
