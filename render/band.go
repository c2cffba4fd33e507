package render

import (
	"fmt"

	"github.com/marben/mandel"
)

// RowRange is the half-open range of image rows [Start, End).
type RowRange struct {
	Start, End int
}

// Rows returns the number of rows in the range.
func (r RowRange) Rows() int {
	return r.End - r.Start
}

func (r RowRange) String() string {
	return fmt.Sprintf("rows [%d,%d)", r.Start, r.End)
}

// Partition splits [0, height) into workers contiguous ranges of height/workers
// rows each. The last range absorbs the remainder. Workers are clamped to
// [1, height] so that no range is empty.
func Partition(height, workers int) []RowRange {
	if height <= 0 {
		return nil
	}
	workers = max(1, min(workers, height))

	per := height / workers
	ranges := make([]RowRange, workers)
	for i := range workers {
		start := i * per
		end := start + per
		if i == workers-1 {
			end = height
		}
		ranges[i] = RowRange{Start: start, End: end}
	}
	return ranges
}

// Partition splits r like the package level Partition splits a whole image.
func (r RowRange) Partition(workers int) []RowRange {
	ranges := Partition(r.Rows(), workers)
	for i := range ranges {
		ranges[i].Start += r.Start
		ranges[i].End += r.Start
	}
	return ranges
}

// Band is a mutable view of the rows [Start, End) of a pixel buffer.
//
// Pix covers exactly those rows and its capacity is clipped to its length, so
// writes through one band can never reach the memory of another. Bands are
// only created by NewBuffer and SplitAt; after SplitAt the parent must not be
// used again.
type Band struct {
	RowRange
	Width int
	Pix   []byte
}

// NewBuffer allocates a zeroed pixel buffer for b and returns the band
// covering all of it.
func NewBuffer(b mandel.Bounds) Band {
	pix := make([]byte, b.Pixels())
	return Band{
		RowRange: RowRange{Start: 0, End: b.Height},
		Width:    b.Width,
		Pix:      pix,
	}
}

// SplitAt divides b at the absolute image row into two non-overlapping bands
// covering [Start, row) and [row, End).
func (b Band) SplitAt(row int) (top, bottom Band) {
	if row < b.Start || row > b.End {
		panic(fmt.Sprintf("render: split row %d outside %s", row, b.RowRange))
	}
	n := (row - b.Start) * b.Width
	top = Band{
		RowRange: RowRange{Start: b.Start, End: row},
		Width:    b.Width,
		Pix:      b.Pix[:n:n],
	}
	bottom = Band{
		RowRange: RowRange{Start: row, End: b.End},
		Width:    b.Width,
		Pix:      b.Pix[n:len(b.Pix):len(b.Pix)],
	}
	return top, bottom
}

// Split carves b into one band per range. The ranges must be contiguous and
// cover b exactly, as returned by Partition.
func (b Band) Split(ranges []RowRange) []Band {
	if len(ranges) == 0 || ranges[0].Start != b.Start || ranges[len(ranges)-1].End != b.End {
		panic(fmt.Sprintf("render: ranges do not cover %s", b.RowRange))
	}
	bands := make([]Band, 0, len(ranges))
	rest := b
	for i, r := range ranges {
		if r.Start != rest.Start || r.End < r.Start {
			panic(fmt.Sprintf("render: gap or overlap at %s", r))
		}
		if i == len(ranges)-1 {
			break
		}
		var top Band
		top, rest = rest.SplitAt(r.End)
		bands = append(bands, top)
	}
	return append(bands, rest)
}

// Row returns the pixels of the band's local row y.
func (b Band) Row(y int) []byte {
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

// check panics when the band's slice does not match its row range.
func (b Band) check() {
	if b.Width <= 0 || b.Start < 0 || b.End < b.Start || len(b.Pix) != b.Rows()*b.Width {
		panic(fmt.Sprintf("render: malformed band %s width %d len %d", b.RowRange, b.Width, len(b.Pix)))
	}
}
