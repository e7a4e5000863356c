package swatch

import (
	"image"
	"image/color"

	"paleatra/layout"
)

// Palette is a strip of square color boxes separated by gutters.
type Palette struct {
	img    *image.NRGBA
	side   int
	gutter int
	count  int
}

// New allocates a transparent strip for count boxes of side x side pixels.
func New(side, count, gutter int) *Palette {
	size := layout.Geometry{BoxSide: side, Gutter: gutter}.StripSize(count)
	return &Palette{
		img:    image.NewNRGBA(image.Rectangle{Max: size}),
		side:   side,
		gutter: gutter,
		count:  count,
	}
}

// Render paints colors into a new strip sized for count boxes. The area not
// covered by boxes is filled with fill, unless fill is nil.
func Render(colors []color.NRGBA, geo layout.Geometry, count int, fill color.Color) *Palette {
	p := New(geo.BoxSide, count, geo.Gutter)
	if fill != nil {
		p.Fill(fill)
	}
	p.Paint(colors)
	return p
}

// Fill sets every pixel of the strip to c.
func (p *Palette) Fill(c color.Color) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	for i := 0; i < len(p.img.Pix); i += 4 {
		p.img.Pix[i+0] = nc.R
		p.img.Pix[i+1] = nc.G
		p.img.Pix[i+2] = nc.B
		p.img.Pix[i+3] = nc.A
	}
}

// Paint draws one box per color from left to right. Boxes that run past the
// end of the strip are clipped.
func (p *Palette) Paint(colors []color.NRGBA) {
	b := p.img.Bounds()
	x := b.Min.X
	for _, c := range colors {
		for range p.side {
			if x >= b.Max.X {
				return
			}
			for y := b.Min.Y; y < b.Min.Y+p.side && y < b.Max.Y; y++ {
				p.img.SetNRGBA(x, y, c)
			}
			x++
		}
		x += p.gutter
	}
}

// Rotate90 replaces the strip by its transpose, turning a horizontal strip
// into a vertical one.
func (p *Palette) Rotate90() {
	b := p.img.Bounds()
	rotated := image.NewNRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rotated.SetNRGBA(y-b.Min.Y, x-b.Min.X, p.img.NRGBAAt(x, y))
		}
	}
	p.img = rotated
}

// Dimensions returns the width and height of the strip.
func (p *Palette) Dimensions() (int, int) {
	return p.img.Bounds().Dx(), p.img.Bounds().Dy()
}

func (p *Palette) Image() *image.NRGBA {
	return p.img
}
