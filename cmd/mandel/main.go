// Command mandel renders the Mandelbrot set to a grayscale image file.
//
// Usage:
//
//	mandel [flags] FILE PIXELS UPPERLEFT LOWERRIGHT
//	mandel [flags] -region NAME FILE PIXELS
//	mandel -point RE,IM
//
// For example:
//
//	mandel mandel.png 1000x750 -1.20,0.35 -1,0.20
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/marben/mandel"
	"github.com/marben/mandel/imgfile"
	"github.com/marben/mandel/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("run: %+v", err)
	}
}

// config holds everything parsed from the command line.
type config struct {
	path    string
	format  imgfile.Format
	params  render.Params
	point   string
	verbose bool
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("mandel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		limit   = fs.Uint("limit", render.DefaultLimit, "maximum iterations per pixel")
		workers = fs.Int("workers", runtime.GOMAXPROCS(0), "number of bands rendered in parallel")
		format  = fs.String("format", "", "output format: png, bmp or tiff (default from FILE extension)")
		region  = fs.String("region", "", "named region instead of UPPERLEFT LOWERRIGHT: "+strings.Join(mandel.RegionNames(), ", "))
		point   = fs.String("point", "", "print the escape time of the point RE,IM and exit")
		verbose = fs.Bool("v", false, "log render progress to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: mandel [flags] FILE PIXELS UPPERLEFT LOWERRIGHT")
		fmt.Fprintln(fs.Output(), "       mandel [flags] -region NAME FILE PIXELS")
		fmt.Fprintln(fs.Output(), "example: mandel mandel.png 1000x750 -1.20,0.35 -1,0.20")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{point: *point, verbose: *verbose}
	if *limit > uint(^uint32(0)) {
		return config{}, fmt.Errorf("-limit %d out of range", *limit)
	}
	cfg.params.Limit = uint32(*limit)
	cfg.params.Workers = *workers
	if cfg.point != "" {
		return cfg, nil
	}

	pos := fs.Args()
	want := 4
	if *region != "" {
		want = 2
	}
	if len(pos) != want {
		fs.Usage()
		return config{}, fmt.Errorf("expected %d arguments, got %d", want, len(pos))
	}

	cfg.path = pos[0]
	cfg.format = imgfile.FormatFromPath(cfg.path)
	if *format != "" {
		f, err := imgfile.ParseFormat(*format)
		if err != nil {
			return config{}, err
		}
		cfg.format = f
	}

	b, err := mandel.ParseBounds(pos[1])
	if err != nil {
		return config{}, fmt.Errorf("pixels: %w", err)
	}
	cfg.params.Bounds = b

	if *region != "" {
		v, ok := mandel.LookupRegion(*region)
		if !ok {
			return config{}, fmt.Errorf("unknown region %q, known: %s", *region, strings.Join(mandel.RegionNames(), ", "))
		}
		cfg.params.Viewport = v
	} else {
		v, err := mandel.ParseViewport(pos[2], pos[3])
		if err != nil {
			return config{}, err
		}
		cfg.params.Viewport = v
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if cfg.verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer render.SetLogger(nil)
	}
	p := message.NewPrinter(language.English)

	if cfg.point != "" {
		return escapeReport(p, stdout, cfg.point, cfg.params.Limit)
	}

	start := time.Now()
	pix, err := render.Render(cfg.params)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	elapsed := time.Since(start)

	if err := imgfile.Save(cfg.path, cfg.format, pix, cfg.params.Bounds); err != nil {
		return err
	}

	p.Fprintf(stdout, "rendered %d pixels (%v) of %v with %d workers in %v, saved to %q\n",
		cfg.params.Bounds.Pixels(), cfg.params.Bounds, cfg.params.Viewport,
		min(cfg.params.Workers, cfg.params.Bounds.Height), elapsed.Round(time.Millisecond), cfg.path)
	return nil
}

// escapeReport reports whether a single point left the set.
func escapeReport(p *message.Printer, w io.Writer, point string, limit uint32) error {
	c, err := mandel.ParseComplex(point)
	if err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if limit == 0 {
		return render.ErrZeroLimit
	}
	if n, ok := render.EscapeTime(c, limit); ok {
		p.Fprintf(w, "point %v left the Mandelbrot set after %d iterations\n", c, n)
	} else {
		p.Fprintf(w, "point %v is in the Mandelbrot set (limit %d)\n", c, limit)
	}
	return nil
}
