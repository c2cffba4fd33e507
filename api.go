package mandel

// Messages exchanged on the server's /ws endpoint.
//
// The client sends a single RenderRequest as a JSON text frame. For every band
// that finishes, the server writes a BandHeader text frame immediately followed
// by one binary frame holding (End-Start)*Width intensity bytes. The stream ends
// with a Status text frame.

// RenderRequest asks the server to render an image.
// Zero Limit and Workers select the server defaults.
type RenderRequest struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	UpperLeft  [2]float64 `json:"upper_left"`
	LowerRight [2]float64 `json:"lower_right"`
	Limit      uint32     `json:"limit,omitempty"`
	Workers    int        `json:"workers,omitempty"`
}

// NewRenderRequest fills a request from the data model types.
func NewRenderRequest(b Bounds, v Viewport) RenderRequest {
	return RenderRequest{
		Width:      b.Width,
		Height:     b.Height,
		UpperLeft:  [2]float64{real(v.UpperLeft), imag(v.UpperLeft)},
		LowerRight: [2]float64{real(v.LowerRight), imag(v.LowerRight)},
	}
}

// Bounds returns the requested image size.
func (r RenderRequest) Bounds() Bounds {
	return Bounds{Width: r.Width, Height: r.Height}
}

// Viewport returns the requested rectangle of the plane.
func (r RenderRequest) Viewport() Viewport {
	return Viewport{
		UpperLeft:  complex(r.UpperLeft[0], r.UpperLeft[1]),
		LowerRight: complex(r.LowerRight[0], r.LowerRight[1]),
	}
}

// BandHeader announces the binary frame that follows it.
type BandHeader struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Width int `json:"width"`
}

// Len is the size of the binary frame in bytes.
func (h BandHeader) Len() int {
	return (h.End - h.Start) * h.Width
}

// Status terminates a stream. Done is false when Error is set.
type Status struct {
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
	Rows  int    `json:"rows"`
}
