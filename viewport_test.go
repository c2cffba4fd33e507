package mandel

import (
	"errors"
	"math"
	"testing"
)

func TestViewport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		v       Viewport
		wantErr bool
	}{
		{name: "full set", v: Full},
		{name: "equal re", v: Viewport{UpperLeft: complex(0, 1), LowerRight: complex(0, -1)}, wantErr: true},
		{name: "equal im", v: Viewport{UpperLeft: complex(-1, 0), LowerRight: complex(1, 0)}, wantErr: true},
		{name: "inverted re", v: Viewport{UpperLeft: complex(1, 1), LowerRight: complex(-1, -1)}, wantErr: true},
		{name: "inverted im", v: Viewport{UpperLeft: complex(-1, -1), LowerRight: complex(1, 1)}, wantErr: true},
		{name: "nan", v: Viewport{UpperLeft: complex(math.NaN(), 1), LowerRight: complex(1, -1)}, wantErr: true},
		{name: "inf", v: Viewport{UpperLeft: complex(-1, 1), LowerRight: complex(math.Inf(1), -1)}, wantErr: true},
		{name: "re extent overflows", v: Viewport{UpperLeft: complex(-1e308, 1), LowerRight: complex(1e308, -1)}, wantErr: true},
		{name: "im extent overflows", v: Viewport{UpperLeft: complex(-1, math.MaxFloat64), LowerRight: complex(1, -math.MaxFloat64)}, wantErr: true},
		{name: "widest finite", v: Viewport{UpperLeft: complex(-math.MaxFloat64/2, 1), LowerRight: complex(math.MaxFloat64/2, -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidViewport) {
					t.Errorf("Validate() = %v, want ErrInvalidViewport", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestViewport_Extent(t *testing.T) {
	v := Viewport{UpperLeft: complex(-2, 1), LowerRight: complex(1, -1)}
	if v.Width() != 3 {
		t.Errorf("Width() = %g, want 3", v.Width())
	}
	if v.Height() != 2 {
		t.Errorf("Height() = %g, want 2", v.Height())
	}
	if v.Center() != complex(-0.5, 0) {
		t.Errorf("Center() = %v, want (-0.5+0i)", v.Center())
	}
}

func TestBounds_Validate(t *testing.T) {
	if err := (Bounds{Width: 1, Height: 1}).Validate(); err != nil {
		t.Errorf("1x1 Validate() = %v", err)
	}
	for _, b := range []Bounds{{0, 1}, {1, 0}, {-3, 4}, {math.MaxInt, 2}} {
		if err := b.Validate(); !errors.Is(err, ErrInvalidBounds) {
			t.Errorf("%v Validate() = %v, want ErrInvalidBounds", b, err)
		}
	}
}

func TestRegions_Valid(t *testing.T) {
	for _, name := range RegionNames() {
		v, ok := LookupRegion(name)
		if !ok {
			t.Fatalf("LookupRegion(%q) not found", name)
		}
		if err := v.Validate(); err != nil {
			t.Errorf("region %q: %v", name, err)
		}
	}
	if _, ok := LookupRegion("nowhere"); ok {
		t.Error("LookupRegion(nowhere) found a region")
	}
}

func TestRenderRequest_RoundTrip(t *testing.T) {
	b := Bounds{Width: 640, Height: 480}
	req := NewRenderRequest(b, SeahorseValley)
	if req.Bounds() != b {
		t.Errorf("Bounds() = %v, want %v", req.Bounds(), b)
	}
	if req.Viewport() != SeahorseValley {
		t.Errorf("Viewport() = %v, want %v", req.Viewport(), SeahorseValley)
	}
	h := BandHeader{Start: 10, End: 14, Width: 640}
	if h.Len() != 4*640 {
		t.Errorf("BandHeader.Len() = %d, want %d", h.Len(), 4*640)
	}
}
