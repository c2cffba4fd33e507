package mandel

import "context"

//go:generate go run github.com/marben/irpc/cmd/irpc@v0.0.0-20260109104542-2d3fde99869b

// Renderer renders rows of an image on behalf of a remote caller.
// The server provides it as an irpc service on its TCP listener.
type Renderer interface {
	// RenderRows returns the intensities of the rows [r.Start, r.End) of the
	// image described by r, row-major.
	RenderRows(ctx context.Context, r RowsRequest) ([]byte, error)
}

// RowsRequest asks a Renderer for a band of rows. Zero Limit and Workers
// select the server defaults.
type RowsRequest struct {
	Width, Height int

	UpperLeftRe, UpperLeftIm   float64
	LowerRightRe, LowerRightIm float64

	Limit   uint32
	Workers int

	Start, End int
}

// NewRowsRequest asks for rows [start, end) of the image req describes.
func NewRowsRequest(req RenderRequest, start, end int) RowsRequest {
	return RowsRequest{
		Width:        req.Width,
		Height:       req.Height,
		UpperLeftRe:  req.UpperLeft[0],
		UpperLeftIm:  req.UpperLeft[1],
		LowerRightRe: req.LowerRight[0],
		LowerRightIm: req.LowerRight[1],
		Limit:        req.Limit,
		Workers:      req.Workers,
		Start:        start,
		End:          end,
	}
}

// Image returns the request for the whole image r is part of.
func (r RowsRequest) Image() RenderRequest {
	return RenderRequest{
		Width:      r.Width,
		Height:     r.Height,
		UpperLeft:  [2]float64{r.UpperLeftRe, r.UpperLeftIm},
		LowerRight: [2]float64{r.LowerRightRe, r.LowerRightIm},
		Limit:      r.Limit,
		Workers:    r.Workers,
	}
}
