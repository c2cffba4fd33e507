package render

import "github.com/marben/mandel"

// DefaultLimit is the iteration cap used when none is given. It matches the
// range of a single intensity byte.
const DefaultLimit = 255

// EscapeTime tries to determine whether c is in the Mandelbrot set using at
// most limit iterations of z = z*z + c starting from zero.
//
// If the orbit leaves the circle of radius 2 it returns the number of
// iterations performed, in [1, limit], and true. Otherwise c is
// indistinguishable from a member at this limit and it returns 0, false.
func EscapeTime(c complex128, limit uint32) (n uint32, escaped bool) {
	z := complex(0, 0)
	for i := uint32(0); i < limit; i++ {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			return i + 1, true
		}
	}
	return 0, false
}

// Intensity maps an escape time to a pixel value. Faster escapes are
// brighter; points that never escape are black.
func Intensity(n uint32, escaped bool) byte {
	if !escaped || n >= 255 {
		return 0
	}
	return byte(255 - n)
}

// PixelToPoint returns the point of the plane under pixel (col, row) of an
// image with bounds b looking at viewport v. The caller guarantees
// 0 <= col < b.Width and 0 <= row < b.Height.
func PixelToPoint(col, row int, b mandel.Bounds, v mandel.Viewport) complex128 {
	// col*step stays within the finite extent of a valid viewport.
	re := real(v.UpperLeft) + float64(col)*(v.Width()/float64(b.Width))
	im := imag(v.UpperLeft) - float64(row)*(v.Height()/float64(b.Height))
	return complex(re, im)
}
