package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// EncodeError reports an output that could not be written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("could not save image %q: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Format returns the encoder name for the extension of path: gif, jpeg, png,
// bmp or tiff.
func Format(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return "gif", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Encode writes img to path in the format implied by its extension. The data
// goes to a temporary file in the same directory first, which is renamed over
// path only once fully written.
func Encode(path string, img image.Image) (err error) {
	format, err := Format(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return &EncodeError{Path: path, Err: fmt.Errorf("could not create temporary destination: %w", err)}
	}

	committed := false
	defer func() {
		if !committed {
			_ = outFile.Close()
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = encode(outFile, format, img); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err = outFile.Sync(); err != nil {
		return &EncodeError{Path: path, Err: fmt.Errorf("could not flush temporary destination: %w", err)}
	}
	if err = outFile.Close(); err != nil {
		return &EncodeError{Path: path, Err: fmt.Errorf("could not close temporary destination: %w", err)}
	}
	if err = os.Rename(outFile.Name(), path); err != nil {
		_ = os.Remove(outFile.Name())
		committed = true
		return &EncodeError{Path: path, Err: fmt.Errorf("could not rename destination: %w", err)}
	}
	committed = true
	return nil
}

func encode(w io.Writer, format string, img image.Image) error {
	switch format {
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

// batch mode encodes concurrently, so the buffers are pooled.
var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
