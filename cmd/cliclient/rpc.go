package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/marben/irpc"
	"github.com/marben/mandel"
	"github.com/marben/mandel/render"
)

var errBandSize = errors.New("band has the wrong size")

// fetchRPC requests the image from an irpc server, bands rows at a time.
func fetchRPC(ctx context.Context, addr string, req mandel.RenderRequest, bands int, onBand func(mandel.BandHeader)) ([]byte, error) {
	log.Printf("Connecting to irpc server at %s...", addr)
	var d net.Dialer
	tcpConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	ep := irpc.NewEndpoint(tcpConn)
	defer ep.Close()

	client, err := mandel.NewRendererIrpcClient(ep)
	if err != nil {
		return nil, fmt.Errorf("failed to create Renderer client: %w", err)
	}

	log.Printf("Requesting %v of %v in %d bands...", req.Bounds(), req.Viewport(), bands)
	return fetchRows(ctx, client, req, bands, onBand)
}

// fetchRows asks r for every band of the image concurrently and copies the
// results in place. The first failure cancels the bands still in flight.
// onBand calls are serialized.
func fetchRows(ctx context.Context, r mandel.Renderer, req mandel.RenderRequest, bands int, onBand func(mandel.BandHeader)) ([]byte, error) {
	b := req.Bounds()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pix := make([]byte, b.Pixels())
	ranges := render.Partition(b.Height, bands)
	errs := make([]error, len(ranges))
	var (
		m  sync.Mutex
		wg sync.WaitGroup
	)
	wg.Add(len(ranges))
	for i, rows := range ranges {
		go func() {
			defer wg.Done()
			data, err := r.RenderRows(ctx, mandel.NewRowsRequest(req, rows.Start, rows.End))
			if err == nil && len(data) != rows.Rows()*b.Width {
				err = fmt.Errorf("%w: %d bytes", errBandSize, len(data))
			}
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", rows, err)
				cancel()
				return
			}
			copy(pix[rows.Start*b.Width:], data)
			if onBand != nil {
				m.Lock()
				onBand(mandel.BandHeader{Start: rows.Start, End: rows.End, Width: b.Width})
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return pix, nil
}
