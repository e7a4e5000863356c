package layout

import "image"

const (
	// DefaultBorder is the frame margin around the image and the palette.
	DefaultBorder = 10
	// GutterRatio is the gutter width as a fraction of the box side.
	GutterRatio = 0.13
)

// Geometry is the size of one square swatch and the gap after it.
type Geometry struct {
	BoxSide int
	Gutter  int
}

// Compute sizes boxes so that boxes+1 of them fit into length.
func Compute(length, boxes int) Geometry {
	side := length / (boxes + 1)
	return Geometry{
		BoxSide: side,
		Gutter:  int(float64(side) * GutterRatio),
	}
}

// StripSize returns the size of an unrotated strip holding count boxes.
func (g Geometry) StripSize(count int) image.Point {
	if count <= 0 {
		return image.Point{}
	}
	return image.Pt(g.BoxSide*count+g.Gutter*(count-1), g.BoxSide)
}

// Frame is the complete geometry of a framed picture.
type Frame struct {
	Placement Placement
	Border    int
	Boxes     int
	Geometry  Geometry
	// Canvas is the size of the whole framed picture.
	Canvas image.Point
	// Source is where the top-left source pixel lands.
	Source image.Point
	// Size is the size of the source image.
	Size image.Point
	// Divider is where the top-left palette pixel lands.
	Divider image.Point
	// Strip is the palette buffer size, rotated for vertical placements.
	Strip image.Point
}

// NewFrame lays out a width x height image with a palette of boxes swatches.
func NewFrame(width, height, boxes int, p Placement, border int) Frame {
	tr := p.traits()

	length := width
	if tr.vertical {
		length = height
	}
	geo := Compute(length, boxes)

	extent := geo.BoxSide
	if boxes <= 0 {
		extent = 0
	}

	f := Frame{
		Placement: p,
		Border:    border,
		Boxes:     boxes,
		Geometry:  geo,
		Source:    image.Pt(border, border),
		Size:      image.Pt(width, height),
		Divider:   image.Pt(border, border),
		Strip:     geo.StripSize(boxes),
	}

	if tr.vertical {
		f.Canvas = image.Pt(width+3*border+extent, height+2*border)
		f.Strip = image.Pt(f.Strip.Y, f.Strip.X)
		if tr.leading {
			f.Source.X += extent + border
		} else {
			f.Divider.X += width + border
		}
	} else {
		f.Canvas = image.Pt(width+2*border, height+3*border+extent)
		if tr.leading {
			f.Source.Y += extent + border
		} else {
			f.Divider.Y += height + border
		}
	}

	return f
}

// SourceRect is the canvas region reserved for the source image.
func (f Frame) SourceRect() image.Rectangle {
	return image.Rectangle{Min: f.Source, Max: f.Source.Add(f.Size)}
}

// Offset is the extra shift applied to the source on top of the border.
func (f Frame) Offset() image.Point {
	return f.Source.Sub(image.Pt(f.Border, f.Border))
}
