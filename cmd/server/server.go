// Command server renders the Mandelbrot set on request.
//
// GET /render returns an encoded image. /ws upgrades to a websocket on which
// a client sends one render request and receives the bands as they finish.
// GET /regions lists the named viewports. A plain TCP listener offers the
// same renders as an irpc mandel.Renderer service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/marben/mandel/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

// config is the server configuration taken from flags.
type config struct {
	addr      string
	irpcAddr  string
	limit     uint32
	workers   int
	maxPixels int
	origins   []string
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var (
		addr      = fs.String("addr", ":8080", "listen address")
		irpcAddr  = fs.String("irpc-addr", ":8081", "irpc TCP listen address, empty to disable")
		limit     = fs.Uint("limit", render.DefaultLimit, "default iteration limit")
		workers   = fs.Int("workers", runtime.GOMAXPROCS(0), "maximum workers per render")
		maxPixels = fs.Int("max-pixels", 16<<20, "largest image accepted")
		origins   = fs.String("origins", "localhost:*", "comma separated host patterns allowed to open /ws from a browser")
	)
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if *limit == 0 || *limit > uint(^uint32(0)) {
		return config{}, fmt.Errorf("-limit %d out of range", *limit)
	}
	if *workers <= 0 || *maxPixels <= 0 {
		return config{}, errors.New("-workers and -max-pixels must be positive")
	}
	return config{
		addr:      *addr,
		irpcAddr:  *irpcAddr,
		limit:     uint32(*limit),
		workers:   *workers,
		maxPixels: *maxPixels,
		origins:   strings.Split(*origins, ","),
	}, nil
}

func run() error {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := newServer(cfg)
	httpServer := &http.Server{
		Addr:              cfg.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 2)
	go func() {
		log.Printf("listening on http://localhost%s", cfg.addr)
		errc <- httpServer.ListenAndServe()
	}()

	// irpc clients ask for rows over plain TCP
	rpcServer := srv.newRPCServer()
	if cfg.irpcAddr != "" {
		tcpListener, err := net.Listen("tcp", cfg.irpcAddr)
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}
		go func() {
			errc <- serveRPC(rpcServer, tcpListener)
		}()
	}

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down, renders in flight: %d", srv.jobs.Active())
	if err := rpcServer.Close(); err != nil {
		log.Printf("irpc close: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
