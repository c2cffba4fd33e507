// Package render computes grayscale images of the Mandelbrot set.
//
// The pixel buffer is split into horizontal bands, one per worker goroutine.
// Each worker owns the subslice of its band exclusively for the duration of
// the render, so the workers write into the shared buffer without locks. The
// buffer is only handed back once every band is complete.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/marben/mandel"
)

var (
	// ErrZeroLimit is returned for renders with an iteration cap of zero.
	ErrZeroLimit = errors.New("render: iteration limit must be positive")

	// ErrZeroWorkers is returned for renders without any worker.
	ErrZeroWorkers = errors.New("render: worker count must be positive")

	// ErrInvalidRows is returned for row ranges that are empty or do not lie
	// within the image.
	ErrInvalidRows = errors.New("render: invalid row range")
)

// Params describe one render.
type Params struct {
	Bounds   mandel.Bounds
	Viewport mandel.Viewport

	// Limit caps the iterations spent on each pixel.
	Limit uint32

	// Workers is the number of bands rendered in parallel.
	// It is clamped to the image height.
	Workers int
}

// DefaultParams returns params using DefaultLimit and one worker per
// available CPU.
func DefaultParams(b mandel.Bounds, v mandel.Viewport) Params {
	return Params{
		Bounds:   b,
		Viewport: v,
		Limit:    DefaultLimit,
		Workers:  runtime.GOMAXPROCS(0),
	}
}

// Validate checks the render preconditions.
func (p Params) Validate() error {
	if err := p.Bounds.Validate(); err != nil {
		return err
	}
	if err := p.Viewport.Validate(); err != nil {
		return err
	}
	if p.Limit == 0 {
		return ErrZeroLimit
	}
	if p.Workers <= 0 {
		return fmt.Errorf("%w: got %d", ErrZeroWorkers, p.Workers)
	}
	return nil
}

// WorkerError reports a worker that panicked while rendering its band.
type WorkerError struct {
	Rows  RowRange
	Value any
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("render: worker for %s failed: %v", e.Rows, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *WorkerError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Option configures a single render.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	bandDone func(Band)
}

// WithLogger overrides the package logger for one render.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBandDone registers fn to be called from the worker goroutine once its
// band holds final pixel values. fn must be safe for concurrent use. It may
// keep the band and read it at any later time, but must never write to it:
// the band shares memory with the returned buffer.
// Callbacks from several WithBandDone options run in the order given.
func WithBandDone(fn func(Band)) Option {
	return func(o *options) {
		prev := o.bandDone
		if prev == nil {
			o.bandDone = fn
			return
		}
		o.bandDone = func(b Band) {
			prev(b)
			fn(b)
		}
	}
}

// Render renders the image described by p and returns its row-major pixels.
func Render(p Params, opts ...Option) ([]byte, error) {
	return RenderContext(context.Background(), p, opts...)
}

// RenderContext is like Render but stops early when ctx is done. A cancelled
// or failed render never returns pixels. The error of a cancelled render
// wraps the cancellation cause and any worker failures.
func RenderContext(ctx context.Context, p Params, opts ...Option) ([]byte, error) {
	return RenderRowsContext(ctx, p, RowRange{Start: 0, End: p.Bounds.Height}, opts...)
}

// RenderRowsContext renders only the image rows in r and returns their
// pixels, row-major. The rows are split among p.Workers as if they were a
// whole image, but every pixel gets the value it has in the full render.
func RenderRowsContext(ctx context.Context, p Params, r RowRange, opts ...Option) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if r.Start < 0 || r.End > p.Bounds.Height || r.Start >= r.End {
		return nil, fmt.Errorf("%w: %s of %v", ErrInvalidRows, r, p.Bounds)
	}
	o := options{logger: Logger()}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	root := Band{RowRange: r, Width: p.Bounds.Width, Pix: make([]byte, r.Rows()*p.Bounds.Width)}
	bands := root.Split(r.Partition(p.Workers))
	o.logger.Debug("render started",
		"bounds", p.Bounds, "viewport", p.Viewport, "rows", r, "limit", p.Limit, "bands", len(bands))

	// Each worker writes only its own slot.
	errs := make([]error, len(bands))
	var wg sync.WaitGroup
	wg.Add(len(bands))
	for i, band := range bands {
		go func() {
			defer wg.Done()
			errs[i] = o.work(ctx, band, p)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		// Workers that saw the cancellation only repeat it.
		failed := []error{context.Cause(ctx)}
		for _, err := range errs {
			var we *WorkerError
			if errors.As(err, &we) {
				failed = append(failed, err)
			}
		}
		err := fmt.Errorf("render: %w", errors.Join(failed...))
		o.logger.Warn("render cancelled", "err", err)
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		o.logger.Warn("render failed", "err", err)
		return nil, err
	}
	o.logger.Debug("render finished", "bounds", p.Bounds, "rows", r, "took", time.Since(start))
	return root.Pix, nil
}

// work renders one band and turns a panic into a WorkerError.
func (o *options) work(ctx context.Context, band Band, p Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerError{Rows: band.RowRange, Value: r}
		}
	}()

	if err := renderBand(ctx, band, p.Bounds.Height, p.Viewport, p.Limit); err != nil {
		return err
	}
	o.logger.Debug("band finished", "rows", band.RowRange)
	if o.bandDone != nil {
		o.bandDone(band)
	}
	return nil
}

// RenderBand fills band with the intensities of its pixels. fullHeight is the
// height of the whole image, so the result does not depend on how the image
// was partitioned. A band that does not match its row range panics.
func RenderBand(band Band, fullHeight int, v mandel.Viewport, limit uint32) {
	// Background is never done.
	_ = renderBand(context.Background(), band, fullHeight, v, limit)
}

func renderBand(ctx context.Context, band Band, fullHeight int, v mandel.Viewport, limit uint32) error {
	band.check()
	if band.End > fullHeight {
		panic(fmt.Sprintf("render: %s beyond image height %d", band.RowRange, fullHeight))
	}
	b := mandel.Bounds{Width: band.Width, Height: fullHeight}
	for y := range band.Rows() {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := band.Row(y)
		for x := range row {
			c := PixelToPoint(x, band.Start+y, b, v)
			row[x] = Intensity(EscapeTime(c, limit))
		}
	}
	return nil
}
