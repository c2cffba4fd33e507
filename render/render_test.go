package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/marben/mandel"
)

var fullView = mandel.Viewport{UpperLeft: complex(-2, 1), LowerRight: complex(1, -1)}

func testParams(w, h, workers int) Params {
	return Params{
		Bounds:   mandel.Bounds{Width: w, Height: h},
		Viewport: fullView,
		Limit:    DefaultLimit,
		Workers:  workers,
	}
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr error
	}{
		{name: "valid", mutate: func(*Params) {}},
		{name: "zero width", mutate: func(p *Params) { p.Bounds.Width = 0 }, wantErr: mandel.ErrInvalidBounds},
		{name: "negative height", mutate: func(p *Params) { p.Bounds.Height = -1 }, wantErr: mandel.ErrInvalidBounds},
		{name: "inverted viewport", mutate: func(p *Params) {
			p.Viewport = mandel.Viewport{UpperLeft: fullView.LowerRight, LowerRight: fullView.UpperLeft}
		}, wantErr: mandel.ErrInvalidViewport},
		{name: "zero limit", mutate: func(p *Params) { p.Limit = 0 }, wantErr: ErrZeroLimit},
		{name: "zero workers", mutate: func(p *Params) { p.Workers = 0 }, wantErr: ErrZeroWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams(10, 10, 2)
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}

			pix, err := Render(p)
			if !errors.Is(err, tt.wantErr) || pix != nil {
				t.Errorf("Render() = (%d bytes, %v), want (nil, %v)", len(pix), err, tt.wantErr)
			}
		})
	}
}

func TestRender_ZeroLimitRejected(t *testing.T) {
	p := testParams(100, 100, 4)
	p.Limit = 0
	called := false
	_, err := Render(p, WithBandDone(func(Band) { called = true }))
	if !errors.Is(err, ErrZeroLimit) {
		t.Errorf("Render(limit=0) error = %v, want ErrZeroLimit", err)
	}
	if called {
		t.Error("Render(limit=0) started rendering")
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(mandel.Bounds{Width: 8, Height: 8}, mandel.Full)
	if p.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", p.Workers)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// =============================================================================
// Render Tests
// =============================================================================

func TestRender_KnownPixels(t *testing.T) {
	p := testParams(100, 100, 4)
	pix, err := Render(p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(pix) != 100*100 {
		t.Fatalf("len = %d, want %d", len(pix), 100*100)
	}
	// (-2, 1) leaves the radius 2 disc after the first iteration.
	if pix[0] != 254 {
		t.Errorf("pixel (0,0) = %d, want 254", pix[0])
	}
	// The centre maps to -0.5, inside the main cardioid.
	if got := pix[50*100+50]; got != 0 {
		t.Errorf("centre pixel = %d, want 0", got)
	}
}

func TestRender_WorkerCountIndependent(t *testing.T) {
	sizes := []mandel.Bounds{{Width: 64, Height: 48}, {Width: 37, Height: 13}, {Width: 5, Height: 1}}
	for _, b := range sizes {
		p := testParams(b.Width, b.Height, 1)
		want, err := Render(p)
		if err != nil {
			t.Fatalf("Render(workers=1) error = %v", err)
		}
		for _, workers := range []int{2, 3, 8, 100} {
			p.Workers = workers
			got, err := Render(p)
			if err != nil {
				t.Fatalf("Render(workers=%d) error = %v", workers, err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("%v: workers=%d differs from workers=1", b, workers)
			}
		}
	}
}

func TestRender_MatchesRenderBand(t *testing.T) {
	p := testParams(40, 30, 5)
	got, err := Render(p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	root := NewBuffer(p.Bounds)
	RenderBand(root, p.Bounds.Height, p.Viewport, p.Limit)
	if !bytes.Equal(got, root.Pix) {
		t.Error("Render() differs from a single RenderBand over the whole image")
	}
}

func TestRenderBand_UsesFullHeight(t *testing.T) {
	b := mandel.Bounds{Width: 20, Height: 20}
	whole := NewBuffer(b)
	RenderBand(whole, b.Height, fullView, 100)

	root := NewBuffer(b)
	_, bottom := root.SplitAt(12)
	RenderBand(bottom, b.Height, fullView, 100)
	if !bytes.Equal(bottom.Pix, whole.Pix[12*20:]) {
		t.Error("band rendered alone differs from the same rows of the whole image")
	}
	for i, p := range root.Pix[:12*20] {
		if p != 0 {
			t.Fatalf("RenderBand wrote outside its band at %d", i)
		}
	}
}

func TestRenderBand_MalformedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RenderBand with short slice did not panic")
		}
	}()
	RenderBand(Band{RowRange: RowRange{0, 2}, Width: 4, Pix: make([]byte, 3)}, 2, fullView, 10)
}

func TestRender_BandDone(t *testing.T) {
	p := testParams(16, 10, 3)
	var mu sync.Mutex
	var seen []RowRange
	rows := 0
	pix, err := Render(p, WithBandDone(func(b Band) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, b.RowRange)
		rows += b.Rows()
	}))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(seen) != 3 || rows != 10 {
		t.Errorf("bandDone saw %v (%d rows), want 3 bands covering 10 rows", seen, rows)
	}
	if len(pix) != 160 {
		t.Errorf("len = %d, want 160", len(pix))
	}
}

func TestRender_BandDoneKeepsBands(t *testing.T) {
	p := testParams(16, 12, 4)
	var mu sync.Mutex
	kept := make(map[int]Band)
	pix, err := Render(p, WithBandDone(func(b Band) {
		mu.Lock()
		kept[b.Start] = b
		mu.Unlock()
	}))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for start, b := range kept {
		if !bytes.Equal(b.Pix, pix[start*p.Bounds.Width:b.End*p.Bounds.Width]) {
			t.Errorf("band %s read after the render differs from the result", b.RowRange)
		}
	}
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestRender_WorkerPanicPropagates(t *testing.T) {
	p := testParams(16, 16, 4)
	boom := errors.New("boom")
	pix, err := Render(p, WithBandDone(func(b Band) {
		if b.Start == 4 {
			panic(boom)
		}
	}))
	if pix != nil {
		t.Errorf("Render() returned %d bytes after a worker failure", len(pix))
	}
	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("Render() error = %v, want *WorkerError", err)
	}
	if we.Rows != (RowRange{4, 8}) {
		t.Errorf("WorkerError.Rows = %v, want [4,8)", we.Rows)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want to wrap boom", err)
	}
}

func TestRender_MultipleWorkerFailuresJoined(t *testing.T) {
	p := testParams(8, 8, 4)
	_, err := Render(p, WithBandDone(func(b Band) {
		if b.Start%4 == 0 {
			panic("bad band")
		}
	}))
	if err == nil {
		t.Fatal("Render() error = nil")
	}
	if n := strings.Count(err.Error(), "bad band"); n != 2 {
		t.Errorf("error mentions %d failures, want 2: %v", n, err)
	}
}

func TestRenderContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pix, err := RenderContext(ctx, testParams(32, 32, 4))
	if pix != nil {
		t.Error("cancelled render returned pixels")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderContext() error = %v, want context.Canceled", err)
	}
}

func TestRenderContext_CancelKeepsWorkerFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boom := errors.New("boom")
	pix, err := RenderContext(ctx, testParams(8, 8, 1), WithBandDone(func(Band) {
		cancel()
		panic(boom)
	}))
	if pix != nil {
		t.Error("cancelled render returned pixels")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderContext() error = %v, want context.Canceled", err)
	}
	var we *WorkerError
	if !errors.As(err, &we) || !errors.Is(err, boom) {
		t.Errorf("RenderContext() error = %v, want the WorkerError as well", err)
	}
}

// =============================================================================
// Row Range Tests
// =============================================================================

func TestRowRange_Partition(t *testing.T) {
	got := RowRange{Start: 10, End: 17}.Partition(3)
	want := []RowRange{{10, 12}, {12, 14}, {14, 17}}
	if len(got) != len(want) {
		t.Fatalf("Partition() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Partition()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderRowsContext_MatchesFullRender(t *testing.T) {
	p := testParams(40, 30, 3)
	full, err := Render(p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, r := range []RowRange{{0, 30}, {0, 1}, {7, 19}, {29, 30}} {
		t.Run(r.String(), func(t *testing.T) {
			got, err := RenderRowsContext(context.Background(), p, r)
			if err != nil {
				t.Fatalf("RenderRowsContext() error = %v", err)
			}
			want := full[r.Start*p.Bounds.Width : r.End*p.Bounds.Width]
			if !bytes.Equal(got, want) {
				t.Errorf("rows %v differ from the full render", r)
			}
		})
	}
}

func TestRenderRowsContext_InvalidRows(t *testing.T) {
	p := testParams(4, 4, 2)
	for _, r := range []RowRange{{0, 0}, {3, 2}, {-1, 2}, {2, 5}} {
		if _, err := RenderRowsContext(context.Background(), p, r); !errors.Is(err, ErrInvalidRows) {
			t.Errorf("RenderRowsContext(%v) error = %v, want ErrInvalidRows", r, err)
		}
	}
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestLogger_DefaultSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	if _, err := Render(testParams(4, 4, 2)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, msg := range []string{"render started", "band finished", "render finished"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q: %s", msg, buf.String())
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	_, err := Render(testParams(4, 4, 2), WithLogger(l), WithBandDone(func(Band) { panic("x") }))
	if err == nil {
		t.Fatal("Render() error = nil")
	}
	if !strings.Contains(buf.String(), "render failed") {
		t.Errorf("WithLogger output missing warning: %s", buf.String())
	}
}

func BenchmarkRender(b *testing.B) {
	for _, workers := range []int{1, 4, 8} {
		p := testParams(320, 240, workers)
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for b.Loop() {
				if _, err := Render(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
