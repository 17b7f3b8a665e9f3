package frep

import (
	"errors"
	"math"
	"testing"
)

// unitSquareDoc is the canonical test document: a 1x1 inch region
// (bounds [0,1] in units of 25.4 mm) that yields exactly dpi samples
// per axis.
func unitSquareDoc() *Document {
	return &Document{
		Type: "RGB",
		XMin: 0, XMax: 1,
		YMin: 0, YMax: 1,
		MMPerUnit: 25.4,
		Layers:    []float64{0},
		Function:  "16777215",
	}
}

func TestNewGrid_UnitSquare(t *testing.T) {
	g, err := NewGrid(unitSquareDoc(), 100)
	if err != nil {
		t.Fatalf("NewGrid() = %v, want nil", err)
	}
	if g.Width() != 100 || g.Height() != 100 {
		t.Errorf("grid = %dx%d, want 100x100", g.Width(), g.Height())
	}
	if g.Delta != 0.01 {
		t.Errorf("Delta = %g, want 0.01", g.Delta)
	}
	if g.Xs[0] != 0 {
		t.Errorf("Xs[0] = %g, want 0", g.Xs[0])
	}
	if got, want := g.Xs[99], 0+0.01*99; got != want {
		t.Errorf("Xs[99] = %g, want %g", got, want)
	}
}

func TestNewGrid_RowZeroIsTop(t *testing.T) {
	g, err := NewGrid(unitSquareDoc(), 100)
	if err != nil {
		t.Fatalf("NewGrid() = %v, want nil", err)
	}
	// Ys must descend: row 0 holds the highest sampled y, the last row
	// holds ymin.
	if got, want := g.Ys[0], 0+0.01*99; got != want {
		t.Errorf("Ys[0] = %g, want %g", got, want)
	}
	if got := g.Ys[g.Height()-1]; got != 0 {
		t.Errorf("Ys[last] = %g, want 0", got)
	}
	for r := 1; r < g.Height(); r++ {
		if g.Ys[r] >= g.Ys[r-1] {
			t.Fatalf("Ys not strictly descending at row %d: %g >= %g", r, g.Ys[r], g.Ys[r-1])
		}
	}
}

func TestNewGrid_FloorSampleCount(t *testing.T) {
	// A span that does not divide evenly: 1 unit at delta 0.3 gives
	// floor(3.33) = 3 samples, the open upper bound discarding the rest.
	doc := unitSquareDoc()
	doc.MMPerUnit = 0.254 / 0.3 // delta = 0.3 at 100 dpi
	g, err := NewGrid(doc, 100)
	if err != nil {
		t.Fatalf("NewGrid() = %v, want nil", err)
	}
	if g.Width() != 3 || g.Height() != 3 {
		t.Errorf("grid = %dx%d, want 3x3", g.Width(), g.Height())
	}
	if last := g.Xs[2]; last >= 1 {
		t.Errorf("Xs[2] = %g, want < 1 (open upper bound)", last)
	}
}

func TestNewGrid_InvalidResolution(t *testing.T) {
	for _, dpi := range []int{0, -1, -300} {
		_, err := NewGrid(unitSquareDoc(), dpi)
		if !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("NewGrid(dpi=%d) = %v, want ErrInvalidResolution", dpi, err)
		}
	}
}

func TestNewGrid_EmptyGrid(t *testing.T) {
	// Bounds too small to hold a single sample at this density.
	doc := unitSquareDoc()
	doc.XMax = 0.001
	_, err := NewGrid(doc, 100)
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("NewGrid(empty) = %v, want ErrInvalidResolution", err)
	}
}

func TestNewGrid_AsymmetricBounds(t *testing.T) {
	doc := unitSquareDoc()
	doc.XMin, doc.XMax = -1, 1
	doc.YMin, doc.YMax = 0, 0.5
	g, err := NewGrid(doc, 100)
	if err != nil {
		t.Fatalf("NewGrid() = %v, want nil", err)
	}
	if g.Width() != 200 || g.Height() != 50 {
		t.Errorf("grid = %dx%d, want 200x50", g.Width(), g.Height())
	}
	if g.Xs[0] != -1 {
		t.Errorf("Xs[0] = %g, want -1", g.Xs[0])
	}
}

func TestPixelsPerMeter(t *testing.T) {
	tests := []struct {
		dpi  int
		want uint32
	}{
		{100, 3937},
		{300, 11811},
		{72, 2835},
		{600, 23622},
	}
	for _, tt := range tests {
		if got := PixelsPerMeter(tt.dpi); got != tt.want {
			t.Errorf("PixelsPerMeter(%d) = %d, want %d", tt.dpi, got, tt.want)
		}
	}
}

func TestPixelsPerMeter_MatchesRounding(t *testing.T) {
	for dpi := 1; dpi <= 1200; dpi++ {
		want := uint32(math.Round(1000 * float64(dpi) / 25.4))
		if got := PixelsPerMeter(dpi); got != want {
			t.Fatalf("PixelsPerMeter(%d) = %d, want %d", dpi, got, want)
		}
	}
}
