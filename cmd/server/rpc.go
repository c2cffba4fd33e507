package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/marben/irpc"
	"github.com/marben/mandel"
	"github.com/marben/mandel/render"
)

// rpcRenderer provides mandel.Renderer to irpc clients. Every call is a job
// of its own, with the same limits as the websocket endpoint.
type rpcRenderer struct {
	srv *server
}

var _ mandel.Renderer = rpcRenderer{}

func (r rpcRenderer) RenderRows(ctx context.Context, req mandel.RowsRequest) ([]byte, error) {
	p, err := r.srv.requestParams(req.Image())
	if err != nil {
		return nil, err
	}
	rows := render.RowRange{Start: req.Start, End: req.End}

	job := r.srv.jobs.start(p)
	pix, err := render.RenderRowsContext(ctx, p, rows, render.WithBandDone(job.bandFinished))
	job.end(err)
	return pix, err
}

// newRPCServer returns an irpc server offering the renderer service.
func (s *server) newRPCServer() *irpc.Server {
	return irpc.NewServer(
		irpc.WithServices(mandel.NewRendererIrpcService(rpcRenderer{srv: s})),
		irpc.WithOnConnect(func(ep *irpc.Endpoint) {
			log.Printf("irpc: connection from %s", ep.RemoteAddr())
		}),
	)
}

// serveRPC serves irpc on l until rpcServer is closed.
func serveRPC(rpcServer *irpc.Server, l net.Listener) error {
	log.Printf("irpc listening on %s", l.Addr())
	if err := rpcServer.Serve(l); err != nil && !errors.Is(err, irpc.ErrServerClosed) {
		return fmt.Errorf("irpc server: %w", err)
	}
	return nil
}
