package render

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrNoRasterizer is returned when rendering is requested without a Rasterizer.
	ErrNoRasterizer = errors.New("no rasterizer configured")
)

// Rasterizer draws a page at the given resolution. Pages are 1-based.
type Rasterizer interface {
	Rasterize(page int, dpi float64) (image.Image, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(page int, dpi float64) (image.Image, error)

// Rasterize implements Rasterizer.
func (f RasterizerFunc) Rasterize(page int, dpi float64) (image.Image, error) {
	return f(page, dpi)
}

// Format is an encoded image format.
type Format int

const (
	// PNG is lossless; compression trades speed for size.
	PNG Format = iota
	// TIFF is written deflate-compressed or uncompressed.
	TIFF
	// JPEG is lossy.
	JPEG
	// BMP is always uncompressed.
	BMP
)

// String returns the lower case format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case TIFF:
		return "tiff"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the usual file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case TIFF:
		return ".tiff"
	case JPEG:
		return ".jpg"
	case BMP:
		return ".bmp"
	default:
		return ""
	}
}

// ParseFormat parses a format name or extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// JPEG qualities for uncompressed and compressed output.
const (
	jpegQualityFull       = 100
	jpegQualityCompressed = 75
)

// Encode writes img to w in format f. compress selects the smaller encoding
// the format offers; BMP has none and ignores it.
func Encode(w io.Writer, img image.Image, f Format, compress bool) error {
	var err error
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.NoCompression}
		if compress {
			enc.CompressionLevel = png.BestCompression
		}
		err = enc.Encode(w, img)

	case TIFF:
		opts := &tiff.Options{Compression: tiff.Uncompressed}
		if compress {
			opts.Compression = tiff.Deflate
			opts.Predictor = true
		}
		err = tiff.Encode(w, img, opts)

	case JPEG:
		quality := jpegQualityFull
		if compress {
			quality = jpegQualityCompressed
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})

	case BMP:
		err = bmp.Encode(w, img)

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// FitDPI returns the resolution at which a page of pageW x pageH points fills
// a viewport of viewportW x viewportH pixels. Landscape pages fit the width;
// portrait and square pages fit the height.
func FitDPI(pageW, pageH float64, viewportW, viewportH int) float64 {
	if pageW <= 0 || pageH <= 0 {
		return 0
	}
	if pageW > pageH {
		return float64(viewportW) / (pageW / 72)
	}
	return float64(viewportH) / (pageH / 72)
}
