// Package stream carries rendered bands over a websocket.
//
// A client writes one mandel.RenderRequest. The server answers with a
// mandel.BandHeader text frame and a binary frame of pixels for every band as
// it finishes, in completion order, and closes the exchange with a
// mandel.Status. Bands received before a failed Status must be discarded.
package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/marben/mandel"
	"github.com/marben/mandel/render"
)

var (
	// ErrProtocol is returned when the peer breaks the frame sequence.
	ErrProtocol = errors.New("stream: protocol error")

	// ErrRemote wraps the failure reported by the server in its Status.
	ErrRemote = errors.New("stream: remote render failed")
)

// frame is the union of the text messages the server writes. Status frames
// carry "done" or "error"; headers carry "width".
type frame struct {
	mandel.BandHeader
	mandel.Status
}

// WriteBand sends one finished band.
func WriteBand(ctx context.Context, c *websocket.Conn, b render.Band) error {
	h := mandel.BandHeader{Start: b.Start, End: b.End, Width: b.Width}
	if err := wsjson.Write(ctx, c, h); err != nil {
		return fmt.Errorf("stream: write header %s: %w", b.RowRange, err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, b.Pix); err != nil {
		return fmt.Errorf("stream: write %s: %w", b.RowRange, err)
	}
	return nil
}

// WriteStatus ends the stream.
func WriteStatus(ctx context.Context, c *websocket.Conn, s mandel.Status) error {
	if err := wsjson.Write(ctx, c, s); err != nil {
		return fmt.Errorf("stream: write status: %w", err)
	}
	return nil
}

// Serve renders p and streams every band to c as soon as it is final, then
// writes the closing Status. opts are passed on to the render. The returned
// error is the render or transport failure; a render failure has already
// been reported to the client.
func Serve(ctx context.Context, c *websocket.Conn, p render.Params, opts ...render.Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered for every band so workers never wait on the network.
	bands := make(chan render.Band, len(render.Partition(p.Bounds.Height, p.Workers)))
	var renderErr error
	go func() {
		defer close(bands)
		opts := append(opts[:len(opts):len(opts)], render.WithBandDone(func(b render.Band) { bands <- b }))
		_, renderErr = render.RenderContext(ctx, p, opts...)
	}()

	var writeErr error
	for b := range bands {
		if writeErr != nil {
			continue
		}
		if writeErr = WriteBand(ctx, c, b); writeErr != nil {
			cancel()
		}
	}
	if writeErr != nil {
		return writeErr
	}

	if renderErr != nil {
		if err := WriteStatus(ctx, c, mandel.Status{Error: renderErr.Error()}); err != nil {
			return errors.Join(renderErr, err)
		}
		return renderErr
	}
	return WriteStatus(ctx, c, mandel.Status{Done: true, Rows: p.Bounds.Height})
}

// ReadRequest reads the request that opens an exchange.
func ReadRequest(ctx context.Context, c *websocket.Conn) (mandel.RenderRequest, error) {
	var req mandel.RenderRequest
	if err := wsjson.Read(ctx, c, &req); err != nil {
		return mandel.RenderRequest{}, fmt.Errorf("stream: read request: %w", err)
	}
	return req, nil
}

// Request sends req and assembles the streamed bands into a full buffer.
// onBand, if not nil, is called after every band is copied in. A buffer is
// returned only when the server reports success and every row arrived.
func Request(ctx context.Context, c *websocket.Conn, req mandel.RenderRequest, onBand func(mandel.BandHeader)) ([]byte, error) {
	b := req.Bounds()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	// A single band may cover the whole image.
	c.SetReadLimit(int64(b.Pixels()) + 4096)

	if err := wsjson.Write(ctx, c, req); err != nil {
		return nil, fmt.Errorf("stream: write request: %w", err)
	}

	pix := make([]byte, b.Pixels())
	received := make([]bool, b.Height)
	for {
		var f frame
		if err := wsjson.Read(ctx, c, &f); err != nil {
			return nil, fmt.Errorf("stream: read frame: %w", err)
		}
		if f.Width == 0 {
			return finish(f.Status, received, pix)
		}

		h := f.BandHeader
		if h.Width != b.Width || h.Start < 0 || h.End > b.Height || h.Start >= h.End {
			return nil, fmt.Errorf("%w: band %+v does not fit %v", ErrProtocol, h, b)
		}
		typ, data, err := c.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("stream: read band: %w", err)
		}
		if typ != websocket.MessageBinary || len(data) != h.Len() {
			return nil, fmt.Errorf("%w: band %+v carried %d bytes", ErrProtocol, h, len(data))
		}
		for row := h.Start; row < h.End; row++ {
			if received[row] {
				return nil, fmt.Errorf("%w: row %d sent twice", ErrProtocol, row)
			}
			received[row] = true
		}
		copy(pix[h.Start*b.Width:], data)
		if onBand != nil {
			onBand(h)
		}
	}
}

func finish(s mandel.Status, received []bool, pix []byte) ([]byte, error) {
	if s.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, s.Error)
	}
	if !s.Done {
		return nil, fmt.Errorf("%w: unexpected frame", ErrProtocol)
	}
	for row, ok := range received {
		if !ok {
			return nil, fmt.Errorf("%w: row %d missing", ErrProtocol, row)
		}
	}
	return pix, nil
}
