// Package imgfile writes grayscale pixel buffers as image files.
package imgfile

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marben/mandel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output file format.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ErrUnknownFormat is returned for format names that no encoder handles.
var ErrUnknownFormat = errors.New("imgfile: unknown format")

// Formats lists the supported formats.
var Formats = []Format{PNG, BMP, TIFF}

// ParseFormat resolves a format name, case-insensitively. "tif" is accepted
// for TIFF.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format matching the file extension, PNG when the
// extension is missing or unknown.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return PNG
	}
	return f
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Gray wraps pix, one byte per pixel in row-major order, as an image without
// copying.
func Gray(pix []byte, b mandel.Bounds) (*image.Gray, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if len(pix) != b.Pixels() {
		return nil, fmt.Errorf("imgfile: buffer holds %d pixels, %v needs %d", len(pix), b, b.Pixels())
	}
	return &image.Gray{
		Pix:    pix,
		Stride: b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}, nil
}

// Encode writes pix to w in format f.
func Encode(w io.Writer, f Format, pix []byte, b mandel.Bounds) error {
	img, err := Gray(pix, b)
	if err != nil {
		return err
	}
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("imgfile: encode %s: %w", f, err)
	}
	return nil
}

// Save writes pix to the file at path in format f, replacing it.
func Save(path string, f Format, pix []byte, b mandel.Bounds) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imgfile: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("imgfile: %w", cerr)
		}
	}()
	return Encode(file, f, pix, b)
}
