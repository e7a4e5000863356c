package compose

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paleatra/colors"
	"paleatra/filter"
	"paleatra/frame"
	"paleatra/imgio"
	"paleatra/layout"
	"paleatra/palette"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	beige = frame.DefaultBackground

	discard = slog.New(slog.DiscardHandler)
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// halves is red on the left 3/4 and blue on the right quarter.
func halves(w, h int) *image.NRGBA {
	img := solid(w, h, red)
	for y := 0; y < h; y++ {
		for x := w * 3 / 4; x < w; x++ {
			img.SetNRGBA(x, y, blue)
		}
	}
	return img
}

func testOptions(t *testing.T) Options {
	t.Helper()
	o := Options{
		Colors:     10,
		Placement:  "bottom",
		Threshold:  250,
		Border:     10,
		Background: "#FFFCEA",
		Workers:    1,
		Filter:     "none",
	}
	require.NoError(t, o.validate())
	return o
}

func TestParseHexToColor(t *testing.T) {
	tests := map[string]color.NRGBA{
		"#FFF":      {R: 255, G: 255, B: 255, A: 255},
		"#f0a8":     {R: 0xff, G: 0x00, B: 0xaa, A: 0x88},
		"#FFFCEA":   {R: 255, G: 252, B: 234, A: 255},
		"#FFFCEA01": {R: 255, G: 252, B: 234, A: 1},
		"#102030":   {R: 0x10, G: 0x20, B: 0x30, A: 255},
	}
	for s, want := range tests {
		got, err := parseHexToColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	for _, s := range []string{"", "FFF", "#12", "#GGGGGG", "#1234567"} {
		_, err := parseHexToColor(s)
		assert.Error(t, err, s)
	}
}

func TestValidate(t *testing.T) {
	o := testOptions(t)
	assert.Equal(t, beige, o.BackgroundColor)
	assert.Equal(t, filter.None, o.PostFilter)
	assert.Equal(t, layout.Bottom, o.Side)
	assert.False(t, o.AutoSide)

	o.Placement = "Right"
	require.NoError(t, o.validate())
	assert.Equal(t, layout.Right, o.Side)
	assert.Equal(t, layout.Right, o.placement(200, 100))

	o.Placement = "auto"
	require.NoError(t, o.validate())
	assert.True(t, o.AutoSide)
	assert.Equal(t, layout.Right, o.placement(100, 200))
	assert.Equal(t, layout.Bottom, o.placement(200, 100))

	bad := []func(*Options){
		func(o *Options) { o.Colors = -1 },
		func(o *Options) { o.Threshold = -1 },
		func(o *Options) { o.Border = -1 },
		func(o *Options) { o.Workers = -2 },
		func(o *Options) { o.Width = -5 },
		func(o *Options) { o.Height = -5 },
		func(o *Options) { o.Placement = "middle" },
		func(o *Options) { o.Background = "beige" },
		func(o *Options) { o.Filter = "sepia" },
	}
	for i, mutate := range bad {
		o := testOptions(t)
		mutate(&o)
		assert.Error(t, o.validate(), "case %d", i)
	}
}

func TestFrameBottom(t *testing.T) {
	o := testOptions(t)
	res := o.Frame(discard, solid(200, 100, red))

	require.Len(t, res.Colors, 1)
	assert.Equal(t, red, res.Colors[0].RGBA)
	assert.Equal(t, 200*100, res.Pixels)

	w, h := res.Canvas.Dimensions()
	assert.Equal(t, 220, w)
	assert.Equal(t, 148, h)

	img := res.Canvas.Image()
	assert.Equal(t, beige, img.NRGBAAt(9, 9))
	assert.Equal(t, red, img.NRGBAAt(10, 10))
	assert.Equal(t, red, img.NRGBAAt(209, 109))

	// side 18, gutter 2: first box red, the rest of the strip is background
	assert.Equal(t, image.Pt(10, 120), res.Canvas.Divider())
	assert.Equal(t, red, img.NRGBAAt(10, 120))
	assert.Equal(t, red, img.NRGBAAt(27, 137))
	assert.Equal(t, beige, img.NRGBAAt(28, 120))
	assert.Equal(t, beige, img.NRGBAAt(30, 120))
}

func TestFrameLeft(t *testing.T) {
	o := testOptions(t)
	o.Placement = "left"
	require.NoError(t, o.validate())
	res := o.Frame(discard, halves(200, 100))

	require.Len(t, res.Colors, 2)
	assert.Equal(t, red, res.Colors[0].RGBA)
	assert.Equal(t, blue, res.Colors[1].RGBA)

	w, h := res.Canvas.Dimensions()
	assert.Equal(t, 239, w)
	assert.Equal(t, 120, h)

	// side 9, gutter 1: palette runs down the left edge
	img := res.Canvas.Image()
	assert.Equal(t, red, img.NRGBAAt(10, 10))
	assert.Equal(t, beige, img.NRGBAAt(10, 19))
	assert.Equal(t, blue, img.NRGBAAt(10, 20))
	assert.Equal(t, red, img.NRGBAAt(29, 10))
	assert.Equal(t, beige, img.NRGBAAt(28, 10))
}

func TestFrameAuto(t *testing.T) {
	o := testOptions(t)
	o.Placement = "auto"
	require.NoError(t, o.validate())

	res := o.Frame(discard, solid(100, 200, red))
	w, h := res.Canvas.Dimensions()
	assert.Equal(t, 148, w)
	assert.Equal(t, 220, h)
	assert.Equal(t, image.Pt(120, 10), res.Canvas.Divider())

	res = o.Frame(discard, solid(200, 100, red))
	w, h = res.Canvas.Dimensions()
	assert.Equal(t, 220, w)
	assert.Equal(t, 148, h)
}

func TestFrameNoColors(t *testing.T) {
	o := testOptions(t)
	o.Colors = 0
	res := o.Frame(discard, solid(200, 100, red))

	assert.Empty(t, res.Colors)
	w, h := res.Canvas.Dimensions()
	assert.Equal(t, 220, w)
	assert.Equal(t, 130, h)
	assert.True(t, res.Strip.Image().Bounds().Empty())
}

func TestFrameBackground(t *testing.T) {
	o := testOptions(t)
	o.Background = "#FFFCEA01"
	require.NoError(t, o.validate())

	res := o.Frame(discard, solid(20, 10, red))
	assert.Equal(t, color.NRGBA{R: 255, G: 252, B: 234, A: 1}, res.Canvas.Image().NRGBAAt(0, 0))
}

func TestFrameInvert(t *testing.T) {
	o := testOptions(t)
	o.Filter = "invert"
	require.NoError(t, o.validate())

	img := o.Frame(discard, solid(200, 100, red)).Canvas.Image()
	assert.Equal(t, color.NRGBA{G: 255, B: 255, A: 255}, img.NRGBAAt(10, 10))
	assert.Equal(t, color.NRGBA{R: 0, G: 3, B: 21, A: 255}, img.NRGBAAt(0, 0))
}

func TestFrameSharded(t *testing.T) {
	o := testOptions(t)
	seq := o.Frame(discard, halves(64, 48))
	o.Workers = 4
	par := o.Frame(discard, halves(64, 48))

	assert.Equal(t, seq.Colors, par.Colors)
	assert.Equal(t, seq.Canvas.Image().Pix, par.Canvas.Image().Pix)
}

func TestFrameRemap(t *testing.T) {
	o := testOptions(t)
	plain := o.Frame(discard, halves(40, 20))

	o.Remap = true
	remapped := o.Frame(discard, halves(40, 20))
	assert.Equal(t, plain.Canvas.Image().Pix, remapped.Canvas.Image().Pix)

	o.Dither = true
	dithered := o.Frame(discard, halves(40, 20))
	assert.Equal(t, plain.Canvas.Image().Pix, dithered.Canvas.Image().Pix)
}

func TestRemap(t *testing.T) {
	src := solid(4, 4, color.NRGBA{R: 250, G: 10, B: 5, A: 255})
	pal := color.Palette{color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}}

	out := remap(discard, src, pal, false)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.At(2, 2))
}

func TestFit(t *testing.T) {
	src := solid(400, 200, red)

	out := fit(discard, src, 100, 0)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())

	out = fit(discard, src, 300, 30)
	assert.Equal(t, image.Rect(0, 0, 60, 30), out.Bounds())
	assert.Equal(t, red, color.NRGBAModel.Convert(out.At(30, 15)))

	assert.Same(t, src, fit(discard, src, 800, 0))
	assert.Same(t, src, fit(discard, src, 0, 0))
}

func TestReport(t *testing.T) {
	samples := []colors.Sample{
		{RGBA: red, Key: colors.KeyOf(red), Count: 75},
		{RGBA: blue, Key: colors.KeyOf(blue), Count: 25},
	}
	entries := Report(samples, 100)
	require.Len(t, entries, 2)
	assert.Equal(t, ReportEntry{Rank: 1, Hex: "#ff0000", Alpha: 255, HSL: [3]float64{0, 1, 0.5}, Count: 75, Share: 0.75}, entries[0])
	assert.Equal(t, "#0000ff", entries[1].Hex)
	assert.InDelta(t, 240, entries[1].HSL[0], 1e-9)

	var buf bytes.Buffer
	require.NoError(t, WriteReportText(&buf, entries))
	assert.Equal(t, "1. #ff0000\tcount=75\tshare=75.00%\n2. #0000ff\tcount=25\tshare=25.00%\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteReportJSON(&buf, entries))
	var decoded []ReportEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, entries, decoded)

	assert.Empty(t, Report(nil, 0))
}

func TestFrameCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	require.NoError(t, imgio.Encode(input, halves(200, 100)))

	cmd := FrameCmd{
		Input:      input,
		Output:     filepath.Join(dir, "out.png"),
		PaletteOut: filepath.Join(dir, "palette.png"),
		RiffOut:    filepath.Join(dir, "palette.pal"),
		JSON:       true,
		Options:    testOptions(t),
	}
	require.NoError(t, cmd.Validate(nil))

	var stdout bytes.Buffer
	require.NoError(t, cmd.run(&stdout))

	out, _, err := imgio.Decode(cmd.Output)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 220, 148), out.Bounds())

	strip, _, err := imgio.Decode(cmd.PaletteOut)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 198, 18), strip.Bounds())

	pals, err := palette.Load(cmd.RiffOut)
	require.NoError(t, err)
	require.Len(t, pals, 1)
	assert.Equal(t, color.Palette{color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}}, pals[0])

	var entries []ReportEntry
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 15000, entries[0].Count)
	assert.Equal(t, 5000, entries[1].Count)
}

func TestFrameCmdErrors(t *testing.T) {
	dir := t.TempDir()

	cmd := FrameCmd{Input: filepath.Join(dir, "in.png"), Output: filepath.Join(dir, "out.webp"), Options: testOptions(t)}
	assert.Error(t, cmd.Validate(nil))

	cmd.Output = filepath.Join(dir, "out.png")
	var decErr *imgio.DecodeError
	assert.ErrorAs(t, cmd.run(&bytes.Buffer{}), &decErr)

	require.NoError(t, os.WriteFile(cmd.Input, []byte("not a picture"), 0o644))
	assert.ErrorAs(t, cmd.run(&bytes.Buffer{}), &decErr)
	_, err := os.Stat(cmd.Output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imgio.Encode(filepath.Join(dir, "a.png"), solid(40, 20, red)))
	require.NoError(t, imgio.Encode(filepath.Join(dir, "b.bmp"), solid(20, 40, blue)))

	cmd := BatchCmd{Scan: dir, Dest: "out", Format: "same", Jobs: 2, Options: testOptions(t)}
	cmd.Placement = "auto"
	require.NoError(t, cmd.Validate(nil))
	assert.Equal(t, filepath.Join(dir, "out"), cmd.Dest)
	require.NoError(t, cmd.Run())

	a, _, err := imgio.Decode(filepath.Join(dir, "out", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 60, 53), a.Bounds())

	b, format, err := imgio.Decode(filepath.Join(dir, "out", "b.bmp"))
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, image.Rect(0, 0, 53, 60), b.Bounds())
}

func TestBatchCmdCountsErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imgio.Encode(filepath.Join(dir, "a.png"), solid(10, 10, red)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	cmd := BatchCmd{Scan: dir, Dest: filepath.Join(t.TempDir(), "framed"), Format: "jpeg", Jobs: 1, Options: testOptions(t)}
	require.NoError(t, cmd.Validate(nil))
	assert.EqualError(t, cmd.Run(), "error processing 1 files")

	_, err := os.Stat(filepath.Join(cmd.Dest, "a.jpeg"))
	assert.NoError(t, err)
}

func TestBatchValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cmd := BatchCmd{Scan: file, Options: testOptions(t)}
	assert.ErrorContains(t, cmd.Validate(nil), "not a directory")

	cmd = BatchCmd{Scan: t.TempDir(), Jobs: -1, Options: testOptions(t)}
	assert.Error(t, cmd.Validate(nil))
}

func TestBatchImageOptions(t *testing.T) {
	cmd := BatchCmd{Jobs: 0, Options: testOptions(t)}
	cmd.Workers = 0
	assert.Equal(t, 1, cmd.imageOptions().Workers)
	assert.Equal(t, 0, cmd.Workers, "command options are not modified")

	cmd.Jobs = 4
	cmd.Workers = 8
	assert.Equal(t, 1, cmd.imageOptions().Workers)

	cmd.Jobs = 1
	assert.Equal(t, 8, cmd.imageOptions().Workers)
}

func TestDestName(t *testing.T) {
	cmd := BatchCmd{Format: "same"}
	assert.Equal(t, "a.jpeg", cmd.destName("a.jpg", "jpeg"))
	assert.Equal(t, "b.png", cmd.destName("b.webp", "webp"))

	cmd.Format = "tiff"
	assert.Equal(t, "c.d.tiff", cmd.destName("c.d.png", "png"))
}
