package compose

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"paleatra/imgio"
	"paleatra/palette"
)

type FrameCmd struct {
	Input      string `arg:"" help:"Picture to frame" type:"existingfile"`
	Output     string `arg:"" help:"Destination of the framed picture, its extension selects the format" type:"path"`
	PaletteOut string `help:"Also save the palette strip alone" type:"path" group:"output"`
	RiffOut    string `help:"Also export the palette colors as a RIFF PAL file" type:"path" group:"output"`
	Report     bool   `help:"Print the selected colors" default:"false" group:"output"`
	JSON       bool   `help:"Print the selected colors as JSON" name:"json" default:"false" group:"output"`

	Options `embed:""`
}

func (c *FrameCmd) Validate(kctx *kong.Context) error {
	if _, err := imgio.Format(c.Output); err != nil {
		return fmt.Errorf("invalid output %q: %w", c.Output, err)
	}
	if c.PaletteOut != "" {
		if _, err := imgio.Format(c.PaletteOut); err != nil {
			return fmt.Errorf("invalid palette output %q: %w", c.PaletteOut, err)
		}
	}
	return c.Options.validate()
}

func (c *FrameCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *FrameCmd) run(stdout io.Writer) error {
	logger := slog.Default().With("file", c.Input)

	img, format, err := imgio.Decode(c.Input)
	if err != nil {
		return err
	}
	logger.Debug("decoded image", "format", format, "size", img.Bounds().Size())

	res, err := c.frameImage(logger, img, c.Output)
	if err != nil {
		return err
	}

	if c.PaletteOut != "" {
		if err := savePalette(logger, res.Strip.Image(), c.PaletteOut); err != nil {
			return err
		}
	}

	if c.RiffOut != "" {
		if err := palette.Save(c.RiffOut, palette.FromSamples(res.Colors)); err != nil {
			return err
		}
		logger.Info("exported palette", "to", c.RiffOut, "colors", len(res.Colors))
	}

	if c.Report || c.JSON {
		entries := Report(res.Colors, res.Pixels)
		if c.JSON {
			return WriteReportJSON(stdout, entries)
		}
		return WriteReportText(stdout, entries)
	}
	return nil
}

// frameImage fits, frames and saves one decoded picture.
func (o *Options) frameImage(logger *slog.Logger, img image.Image, dest string) (Framed, error) {
	if o.Width > 0 || o.Height > 0 {
		img = fit(logger, img, o.Width, o.Height)
	}

	res := o.Frame(logger, img)
	if err := imgio.Encode(dest, res.Canvas.Image()); err != nil {
		return res, err
	}

	w, h := res.Canvas.Dimensions()
	logger.Info("saved framed image", "to", dest, "width", w, "height", h, "colors", len(res.Colors))
	return res, nil
}

func savePalette(logger *slog.Logger, strip *image.NRGBA, dest string) error {
	if strip.Bounds().Empty() {
		logger.Warn("empty palette, not saving", "to", dest)
		return nil
	}
	if err := imgio.Encode(dest, strip); err != nil {
		return err
	}
	logger.Info("saved palette", "to", dest)
	return nil
}
