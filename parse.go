package mandel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse is returned by the parsers in this file.
var ErrParse = errors.New("mandel: parse error")

// ParsePair splits s at the first occurrence of sep, like "400x300" or
// "1.0,0.5". Both halves must be non-empty.
func ParsePair(s string, sep byte) (left, right string, err error) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", fmt.Errorf("%w: %q: missing separator %q", ErrParse, s, sep)
	}
	left, right = s[:i], s[i+1:]
	if left == "" || right == "" {
		return "", "", fmt.Errorf("%w: %q: empty component", ErrParse, s)
	}
	return left, right, nil
}

// ParseBounds parses image dimensions of the form "WIDTHxHEIGHT".
func ParseBounds(s string) (Bounds, error) {
	l, r, err := ParsePair(s, 'x')
	if err != nil {
		return Bounds{}, err
	}
	w, errW := strconv.Atoi(l)
	h, errH := strconv.Atoi(r)
	if errW != nil || errH != nil {
		return Bounds{}, fmt.Errorf("%w: %q: dimensions must be integers", ErrParse, s)
	}
	b := Bounds{Width: w, Height: h}
	if err := b.Validate(); err != nil {
		return Bounds{}, fmt.Errorf("%w: %q: %w", ErrParse, s, err)
	}
	return b, nil
}

// ParseComplex parses a complex number written as "RE,IM".
func ParseComplex(s string) (complex128, error) {
	l, r, err := ParsePair(s, ',')
	if err != nil {
		return 0, err
	}
	re, errRe := strconv.ParseFloat(strings.TrimSpace(l), 64)
	im, errIm := strconv.ParseFloat(strings.TrimSpace(r), 64)
	if errRe != nil || errIm != nil {
		return 0, fmt.Errorf("%w: %q: components must be numbers", ErrParse, s)
	}
	return complex(re, im), nil
}

// ParseViewport parses the two corners and checks their orientation.
func ParseViewport(upperLeft, lowerRight string) (Viewport, error) {
	ul, err := ParseComplex(upperLeft)
	if err != nil {
		return Viewport{}, fmt.Errorf("upper left: %w", err)
	}
	lr, err := ParseComplex(lowerRight)
	if err != nil {
		return Viewport{}, fmt.Errorf("lower right: %w", err)
	}
	v := Viewport{UpperLeft: ul, LowerRight: lr}
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}
