package colors

import (
	"image"
	"image/color"
	"slices"
)

// Histogram counts pixels per color identity. The result does not depend on
// the order pixels are ingested or partial histograms are merged.
type Histogram struct {
	buckets map[Key]*bucket
	total   int
}

type bucket struct {
	Sample
	// alphas counts pixels per alpha once the key was seen with more than
	// one; nil while every pixel had Sample.RGBA.A.
	alphas map[uint8]int
}

func (b *bucket) add(alpha uint8, n int) {
	b.Count += n
	if b.alphas == nil {
		if alpha == b.RGBA.A {
			return
		}
		b.alphas = map[uint8]int{b.RGBA.A: b.Count - n}
	}
	b.alphas[alpha] += n
}

// sample resolves the representative alpha: the most frequent, the lowest
// on ties.
func (b *bucket) sample() Sample {
	s := b.Sample
	if b.alphas != nil {
		best := -1
		for a, n := range b.alphas {
			if n > best || (n == best && a < s.RGBA.A) {
				s.RGBA.A, best = a, n
			}
		}
	}
	return s
}

func New() *Histogram {
	return &Histogram{buckets: make(map[Key]*bucket)}
}

// Ingest records one pixel.
func (h *Histogram) Ingest(c color.NRGBA) {
	h.total++
	k := KeyOf(c)
	if b, ok := h.buckets[k]; ok {
		b.add(c.A, 1)
		return
	}
	h.buckets[k] = &bucket{Sample: Sample{RGBA: c, Key: k, Count: 1}}
}

// Merge adds every bucket of o into h. o is left unchanged.
func (h *Histogram) Merge(o *Histogram) {
	h.total += o.total
	for k, ob := range o.buckets {
		b, ok := h.buckets[k]
		if !ok {
			b = &bucket{Sample: ob.Sample}
			b.Count = 0
			h.buckets[k] = b
		}
		if ob.alphas == nil {
			b.add(ob.RGBA.A, ob.Count)
			continue
		}
		for a, n := range ob.alphas {
			b.add(a, n)
		}
	}
}

// Len returns the number of distinct colors.
func (h *Histogram) Len() int {
	return len(h.buckets)
}

// Total returns the number of ingested pixels.
func (h *Histogram) Total() int {
	return h.total
}

// Count returns the number of pixels seen with key k.
func (h *Histogram) Count(k Key) int {
	if b, ok := h.buckets[k]; ok {
		return b.Count
	}
	return 0
}

// Samples returns every bucket ordered by ascending key.
func (h *Histogram) Samples() []Sample {
	out := make([]Sample, 0, len(h.buckets))
	for _, b := range h.buckets {
		out = append(out, b.sample())
	}
	slices.SortFunc(out, func(a, b Sample) int {
		return int(a.Key) - int(b.Key)
	})
	return out
}

// FromImage scans img in row-major order.
func FromImage(img image.Image) *Histogram {
	b := img.Bounds()
	h := New()
	scanRows(h, img, b.Min.Y, b.Max.Y)
	return h
}

// scanRows ingests the rows [y0, y1) of img. Backing arrays of NRGBA and
// RGBA images are read directly.
func scanRows(h *Histogram, img image.Image, y0, y1 int) {
	b := img.Bounds()
	width := b.Dx()

	switch src := img.(type) {
	case *image.NRGBA:
		for y := y0; y < y1; y++ {
			off := src.PixOffset(b.Min.X, y)
			row := src.Pix[off : off+width*4]
			for x := 0; x < width; x++ {
				p := row[x*4 : x*4+4 : x*4+4]
				h.Ingest(color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
			}
		}
	case *image.RGBA:
		for y := y0; y < y1; y++ {
			off := src.PixOffset(b.Min.X, y)
			row := src.Pix[off : off+width*4]
			for x := 0; x < width; x++ {
				p := row[x*4 : x*4+4 : x*4+4]
				c := color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
				if c.A == 0xff {
					h.Ingest(color.NRGBA(c))
				} else {
					h.Ingest(color.NRGBAModel.Convert(c).(color.NRGBA))
				}
			}
		}
	default:
		for y := y0; y < y1; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				h.Ingest(color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA))
			}
		}
	}
}
