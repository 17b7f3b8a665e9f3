package frep

import (
	"fmt"
	"math"
)

// Grid is the sample lattice for one render request: the pixel pitch in
// document units plus the materialized coordinate axes. Xs ascends from
// xmin; Ys descends from just below ymax, so Ys[0] is the top image row.
// Both backends must derive coordinates from the same formulas
// (min + delta*index) so their floating-point grids agree bit for bit.
//
// A Grid is derived once per render request and immutable afterwards.
type Grid struct {
	Delta float64
	Xs    []float64
	Ys    []float64
}

// NewGrid derives the sample grid for the document at the requested
// output density. The pitch is (25.4/dpi)/mmPerUnit document units and
// each axis carries floor(span/pitch) samples with an open upper bound.
func NewGrid(doc *Document, dpi int) (*Grid, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("frep: dpi must be positive (got %d): %w", dpi, ErrInvalidResolution)
	}
	delta := (25.4 / float64(dpi)) / doc.MMPerUnit
	nx := axisSamples(doc.XMin, doc.XMax, delta)
	ny := axisSamples(doc.YMin, doc.YMax, delta)
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("frep: grid is empty at %d dpi (%dx%d samples): %w", dpi, nx, ny, ErrInvalidResolution)
	}

	g := &Grid{
		Delta: delta,
		Xs:    make([]float64, nx),
		Ys:    make([]float64, ny),
	}
	for i := 0; i < nx; i++ {
		g.Xs[i] = doc.XMin + delta*float64(i)
	}
	for r := 0; r < ny; r++ {
		// Row 0 is the highest sampled y; the image is written top-down.
		g.Ys[r] = doc.YMin + delta*float64(ny-1-r)
	}
	return g, nil
}

// axisSamples is the per-axis sample count: floor((max-min)/delta).
func axisSamples(min, max, delta float64) int {
	return int(math.Floor((max - min) / delta))
}

// Width returns the number of samples along x.
func (g *Grid) Width() int { return len(g.Xs) }

// Height returns the number of samples along y.
func (g *Grid) Height() int { return len(g.Ys) }

// PixelsPerMeter converts an output density in dots per inch to the
// pixels-per-meter figure carried in image resolution metadata,
// round(1000*dpi/25.4). Both backends stamp this value on their output.
func PixelsPerMeter(dpi int) uint32 {
	return uint32(math.Round(1000 * float64(dpi) / 25.4))
}
