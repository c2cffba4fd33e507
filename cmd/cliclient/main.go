// cliclient asks a running Mandelbrot server for a render, assembles the bands
// as they come in, and saves the image. Bands stream over the server's
// websocket endpoint, or with -irpc are requested a few at a time from its
// irpc Renderer service.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/marben/mandel"
	"github.com/marben/mandel/imgfile"
	"github.com/marben/mandel/stream"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// main is the entry point for the CLI client.
// Note: All rendering is performed by the server; the client only assembles and saves the image.
func main() {
	log.Printf("Starting CLI client...")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

type options struct {
	url      string
	irpcAddr string
	bands    int
	req      mandel.RenderRequest
	output   string
	format   imgfile.Format
	timeout  time.Duration
	progress bool
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("cliclient", flag.ContinueOnError)
	var (
		url      = fs.String("url", "ws://localhost:8080/ws", "server websocket endpoint")
		irpcAddr = fs.String("irpc", "", "irpc server address, e.g. localhost:8081; overrides -url")
		bands    = fs.Int("bands", 8, "bands requested separately over irpc")
		size     = fs.String("size", "1920x1080", "image size WIDTHxHEIGHT")
		region   = fs.String("region", "seahorse-valley", "named region, ignored when -ul and -lr are set")
		ul       = fs.String("ul", "", "upper left corner RE,IM")
		lr       = fs.String("lr", "", "lower right corner RE,IM")
		limit    = fs.Uint("limit", 0, "iteration limit (0 = server default)")
		workers  = fs.Int("workers", 0, "workers (0 = server default)")
		output   = fs.String("o", "mandel.png", "output file")
		format   = fs.String("format", "", "png, bmp or tiff (default from -o extension)")
		timeout  = fs.Duration("timeout", 5*time.Minute, "give up after this long")
		progress = fs.Bool("progress", true, "log every band as it arrives")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	b, err := mandel.ParseBounds(*size)
	if err != nil {
		return options{}, fmt.Errorf("-size: %w", err)
	}

	var v mandel.Viewport
	switch {
	case *ul != "" || *lr != "":
		if v, err = mandel.ParseViewport(*ul, *lr); err != nil {
			return options{}, err
		}
	default:
		var ok bool
		if v, ok = mandel.LookupRegion(*region); !ok {
			return options{}, fmt.Errorf("unknown region %q", *region)
		}
	}

	if *bands <= 0 {
		return options{}, fmt.Errorf("-bands %d must be positive", *bands)
	}
	if *limit > uint(^uint32(0)) {
		return options{}, fmt.Errorf("-limit %d out of range", *limit)
	}
	req := mandel.NewRenderRequest(b, v)
	req.Limit = uint32(*limit)
	req.Workers = *workers

	f := imgfile.FormatFromPath(*output)
	if *format != "" {
		if f, err = imgfile.ParseFormat(*format); err != nil {
			return options{}, err
		}
	}

	return options{
		url:      *url,
		irpcAddr: *irpcAddr,
		bands:    *bands,
		req:      req,
		output:   *output,
		format:   f,
		timeout:  *timeout,
		progress: *progress,
	}, nil
}

// run connects to the Mandelbrot server, requests the rendered image, and saves it.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	b := opts.req.Bounds()
	start := time.Now()
	var (
		m    sync.Mutex
		rows int
	)
	onBand := func(h mandel.BandHeader) {
		m.Lock()
		defer m.Unlock()
		rows += h.End - h.Start
		if opts.progress {
			log.Printf("band rows [%d,%d) received, finished: %f", h.Start, h.End, float32(rows)/float32(b.Height))
		}
	}

	// Step 1 and 2: Connect to Mandelbrot server and collect bands as they finish
	var pix []byte
	if opts.irpcAddr != "" {
		pix, err = fetchRPC(ctx, opts.irpcAddr, opts.req, opts.bands, onBand)
	} else {
		pix, err = fetchWebsocket(ctx, opts.url, opts.req, onBand)
	}
	if err != nil {
		return err
	}

	// Step 3: Save the rendered image
	log.Printf("Saving rendered image to %q...", opts.output)
	if err := imgfile.Save(opts.output, opts.format, pix, b); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "received %d pixels in %v, saved to %q\n", b.Pixels(), time.Since(start).Round(time.Millisecond), opts.output)
	return nil
}

func fetchWebsocket(ctx context.Context, url string, req mandel.RenderRequest, onBand func(mandel.BandHeader)) ([]byte, error) {
	log.Printf("Connecting to Mandelbrot server at %s...", url)
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer c.CloseNow()

	log.Printf("Requesting %v of %v...", req.Bounds(), req.Viewport())
	pix, err := stream.Request(ctx, c, req, onBand)
	if err != nil {
		return nil, fmt.Errorf("stream.Request: %w", err)
	}
	c.Close(websocket.StatusNormalClosure, "")
	return pix, nil
}
