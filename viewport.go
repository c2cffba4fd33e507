// Package mandel holds the data model shared by the renderer, the server and its
// clients: the rectangle of the complex plane being looked at, the pixel
// dimensions of the image, and the messages exchanged over the websocket.
package mandel

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	// ErrInvalidBounds is returned for images without at least one pixel.
	ErrInvalidBounds = errors.New("mandel: image bounds must be positive")

	// ErrInvalidViewport is returned for degenerate or inverted viewports.
	ErrInvalidViewport = errors.New("mandel: invalid viewport")
)

// Viewport is the rectangle of the complex plane mapped onto the image.
// Image y grows downward while the imaginary part decreases, so UpperLeft has
// the smaller real part and the larger imaginary part.
type Viewport struct {
	UpperLeft  complex128
	LowerRight complex128
}

// Validate reports whether v spans a non-empty, correctly oriented rectangle.
func (v Viewport) Validate() error {
	if cmplx.IsNaN(v.UpperLeft) || cmplx.IsNaN(v.LowerRight) ||
		cmplx.IsInf(v.UpperLeft) || cmplx.IsInf(v.LowerRight) {
		return fmt.Errorf("%w: corners must be finite: %v", ErrInvalidViewport, v)
	}
	if real(v.UpperLeft) >= real(v.LowerRight) {
		return fmt.Errorf("%w: upper-left re %g must be less than lower-right re %g",
			ErrInvalidViewport, real(v.UpperLeft), real(v.LowerRight))
	}
	if imag(v.UpperLeft) <= imag(v.LowerRight) {
		return fmt.Errorf("%w: upper-left im %g must be greater than lower-right im %g",
			ErrInvalidViewport, imag(v.UpperLeft), imag(v.LowerRight))
	}
	if math.IsInf(v.Width(), 0) || math.IsInf(v.Height(), 0) {
		return fmt.Errorf("%w: extent of %v overflows float64", ErrInvalidViewport, v)
	}
	return nil
}

// Width returns the extent of the viewport along the real axis.
func (v Viewport) Width() float64 {
	return real(v.LowerRight) - real(v.UpperLeft)
}

// Height returns the extent of the viewport along the imaginary axis.
func (v Viewport) Height() float64 {
	return imag(v.UpperLeft) - imag(v.LowerRight)
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() complex128 {
	return (v.UpperLeft + v.LowerRight) / 2
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%s .. %s]", formatComplex(v.UpperLeft), formatComplex(v.LowerRight))
}

// Bounds are the pixel dimensions of an image.
type Bounds struct {
	Width, Height int
}

// Validate reports whether b has at least one pixel and fits in memory
// addressing on this platform.
func (b Bounds) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidBounds, b.Width, b.Height)
	}
	if b.Height > math.MaxInt/b.Width {
		return fmt.Errorf("%w: %dx%d overflows", ErrInvalidBounds, b.Width, b.Height)
	}
	return nil
}

// Pixels returns Width*Height.
func (b Bounds) Pixels() int {
	return b.Width * b.Height
}

func (b Bounds) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

func formatComplex(c complex128) string {
	return fmt.Sprintf("%g,%g", real(c), imag(c))
}
