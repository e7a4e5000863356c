package filter

import (
	"fmt"
	"image"
	"image/color"

	"paleatra/okcolor"
)

// Filter post-processes a finished picture in place.
type Filter int

const (
	None Filter = iota
	Grayscale
	Invert
)

var names = [...]string{
	None:      "none",
	Grayscale: "grayscale",
	Invert:    "invert",
}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(names) {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return names[f]
}

func Parse(s string) (Filter, error) {
	for f, name := range names {
		if name == s {
			return Filter(f), nil
		}
	}
	return None, fmt.Errorf("unknown filter %q", s)
}

// Apply runs f over every pixel of img.
func (f Filter) Apply(img *image.NRGBA) {
	var fn func(color.NRGBA) color.NRGBA
	switch f {
	case Grayscale:
		fn = gray
	case Invert:
		fn = invert
	default:
		return
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, fn(img.NRGBAAt(x, y)))
		}
	}
}

// gray maps a color to the neutral of equal OKLab lightness.
func gray(c color.NRGBA) color.NRGBA {
	l := okcolor.Lightness(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	g := color.NRGBAModel.Convert(okcolor.Lab{L: l, Alpha: 0xffff}).(color.NRGBA)
	g.A = c.A
	return g
}

// invert flips the color channels and keeps alpha.
func invert(c color.NRGBA) color.NRGBA {
	return color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A}
}
