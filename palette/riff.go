package palette

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"

	"paleatra/colors"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// FromSamples returns the opaque colors of samples, in order.
func FromSamples(samples []colors.Sample) color.Palette {
	pal := make(color.Palette, len(samples))
	for i, s := range samples {
		pal[i] = color.RGBA{R: s.RGBA.R, G: s.RGBA.G, B: s.RGBA.B, A: 0xff}
	}
	return pal
}

// WriteTo writes pal as a RIFF PAL document with a single data chunk and
// returns the number of bytes written.
func WriteTo(w io.Writer, pal color.Palette) (int64, error) {
	if len(pal) > 0xffff {
		return 0, fmt.Errorf("too many colors for a RIFF palette: %d", len(pal))
	}

	chunk := 4 + len(pal)*4 // palVersion + palNumEntries + 4 bytes/color
	var buf bytes.Buffer
	buf.Write(riffType[:])
	buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(4+8+chunk)))
	buf.Write(palType[:])
	buf.Write(dataType[:])
	buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(chunk)))
	buf.Write(binary.LittleEndian.AppendUint16(nil, palVersion))
	buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(len(pal))))
	for _, col := range pal {
		c := color.RGBAModel.Convert(col).(color.RGBA)
		buf.Write([]byte{c.R, c.G, c.B, 0x00})
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("could not write palette: %w", err)
	}
	return int64(n), nil
}

// ReadFrom reads every palette chunk of a RIFF PAL document, descending into
// LIST chunks.
func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]color.Palette, error) {
	var res []color.Palette

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported type: %s", ident, len(res), string(listType[:]))
			}

			nested, err := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, nested...)
			if err != nil {
				return res, err
			}
		case dataType:
			pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %s", ident, len(res), id[:])
		}
	}
}

func readPalette(r io.Reader, ident string) (color.Palette, error) {
	var header struct {
		Version uint16
		Count   uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("could not read header from chunk %s: %w", ident, err)
	}
	if header.Version != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, header.Version)
	}

	res := make(color.Palette, header.Count)
	entry := make([]byte, 4)
	for i := range res {
		if _, err := io.ReadFull(r, entry); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, header.Count, ident, err)
		}
		res[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xff}
	}

	return res, nil
}
