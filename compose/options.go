package compose

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"paleatra/colors"
	"paleatra/filter"
	"paleatra/frame"
	"paleatra/layout"
	"paleatra/palette"
	"paleatra/swatch"
	"paleatra/topk"
)

// Options holds the palette and frame settings shared by every command.
type Options struct {
	Colors     int     `help:"Number of palette colors" short:"n" default:"10"`
	Placement  string  `help:"Side of the frame holding the palette" enum:"top,bottom,left,right,auto" default:"bottom"`
	Threshold  float64 `help:"Minimum distance between two palette colors" default:"250"`
	Border     int     `help:"Frame border in pixels" default:"10"`
	Background string  `help:"Frame color as #RGB, #RGBA, #RRGGBB or #RRGGBBAA" default:"#FFFCEA"`
	Workers    int     `help:"Goroutines counting colors, 0 for one per CPU" default:"1"`
	Filter     string  `help:"Filter applied to the framed picture" enum:"none,grayscale,invert" default:"none"`
	Remap      bool    `help:"Redraw the picture using only its palette colors" default:"false" group:"remap"`
	Dither     bool    `help:"Apply dithering when remapping" default:"false" group:"remap"`
	Width      int     `help:"Max picture width, scaled down before framing" group:"resize"`
	Height     int     `help:"Max picture height, scaled down before framing" group:"resize"`

	BackgroundColor color.Color      `kong:"-"`
	PostFilter      filter.Filter    `kong:"-"`
	Side            layout.Placement `kong:"-"`
	AutoSide        bool             `kong:"-"`
}

func (o *Options) validate() error {
	switch {
	case o.Colors < 0:
		return fmt.Errorf("invalid number of colors: %d", o.Colors)
	case o.Threshold < 0:
		return fmt.Errorf("invalid threshold: %v", o.Threshold)
	case o.Border < 0:
		return fmt.Errorf("invalid border: %d", o.Border)
	case o.Workers < 0:
		return fmt.Errorf("invalid number of workers: %d", o.Workers)
	case o.Width < 0:
		return fmt.Errorf("invalid max width: %d", o.Width)
	case o.Height < 0:
		return fmt.Errorf("invalid max height: %d", o.Height)
	}

	var err error
	o.AutoSide = o.Placement == "auto"
	if !o.AutoSide {
		if o.Side, err = layout.ParsePlacement(o.Placement); err != nil {
			return err
		}
	}
	if o.BackgroundColor, err = parseHexToColor(o.Background); err != nil {
		return fmt.Errorf("invalid background %q: %w", o.Background, err)
	}
	if o.PostFilter, err = filter.Parse(o.Filter); err != nil {
		return err
	}
	return nil
}

// placement resolves the validated side for a width x height picture.
func (o *Options) placement(width, height int) layout.Placement {
	if o.AutoSide {
		return layout.Auto(width, height)
	}
	return o.Side
}

func (o *Options) frameOptions() frame.Options {
	opts := frame.DefaultOptions()
	opts.Border = o.Border
	if o.BackgroundColor != nil {
		opts.Background = o.BackgroundColor
	}
	return opts
}

// Framed is the outcome of framing one picture.
type Framed struct {
	Colors []colors.Sample
	Pixels int
	Canvas *frame.Canvas
	Strip  *swatch.Palette
}

// Frame runs the palette pipeline on img: count colors, pick the top ones,
// lay out and render the strip, then composite picture and strip.
func (o *Options) Frame(logger *slog.Logger, img image.Image) Framed {
	size := img.Bounds().Size()

	hist := colors.FromImageSharded(img, o.Workers)
	logger.Debug("counted colors", "distinct", hist.Len(), "pixels", hist.Total(), "workers", o.Workers)

	top := topk.Select(hist.Samples(), o.Colors, o.Threshold)
	logger.Info("selected palette", "requested", o.Colors, "selected", len(top), "threshold", o.Threshold)

	opts := o.frameOptions()
	p := o.placement(size.X, size.Y)
	canvas := frame.New(size.X, size.Y, o.Colors, p, opts)
	geo := canvas.Layout().Geometry
	logger.Debug("layout", "placement", p, "box", geo.BoxSide, "gutter", geo.Gutter, "canvas", canvas.Layout().Canvas)

	rgba := make([]color.NRGBA, len(top))
	for i, s := range top {
		rgba[i] = s.RGBA
	}
	strip := swatch.Render(rgba, geo, o.Colors, opts.Background)
	if p.Vertical() {
		strip.Rotate90()
	}

	if o.Remap && len(top) > 0 {
		img = remap(logger, img, palette.FromSamples(top), o.Dither)
	}

	canvas.CopySource(opts.Border, img)
	canvas.OverlayPalette(strip.Image())
	o.PostFilter.Apply(canvas.Image())

	return Framed{
		Colors: top,
		Pixels: hist.Total(),
		Canvas: canvas,
		Strip:  strip,
	}
}

// parseHexToColor reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA as a straight
// alpha color.
func parseHexToColor(s string) (color.NRGBA, error) {
	var c color.NRGBA
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 5:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}

		c.A = 0xFF
	case 9:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}
	default:
		return c, fmt.Errorf("should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA")
	}

	return c, nil
}
