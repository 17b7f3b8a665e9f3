package frep

import (
	"encoding/json"
	"fmt"
	"io"
)

// ColorModeRGB is the only color mode the renderer accepts.
const ColorModeRGB = "RGB"

// Document is the in-memory form of an FRep description: a bounding box
// in document units, a physical scale, one or more layer heights, and a
// single expression over X, Y and Z that yields either a packed 24-bit
// RGB value (one layer) or a mask combined with a derived per-layer
// intensity (multiple layers).
//
// A Document carries no behavior beyond validation; the grid, the
// evaluators and the compositor all consume it read-only.
type Document struct {
	Type      string    `json:"type"`
	XMin      float64   `json:"xmin"`
	XMax      float64   `json:"xmax"`
	YMin      float64   `json:"ymin"`
	YMax      float64   `json:"ymax"`
	MMPerUnit float64   `json:"mm_per_unit"`
	Layers    []float64 `json:"layers"`
	Function  string    `json:"function"`
}

// ReadDocument decodes a single JSON document from r and validates it.
// It is the entry point for the CLI, which feeds it standard input.
func ReadDocument(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("frep: decode document: %v: %w", err, ErrInvalidDocument)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the structural invariants of the document.
// All violations wrap ErrInvalidDocument.
func (d *Document) Validate() error {
	if d.Type != ColorModeRGB {
		return fmt.Errorf("frep: type %q not supported (only %q): %w", d.Type, ColorModeRGB, ErrInvalidDocument)
	}
	if !(d.XMin < d.XMax) {
		return fmt.Errorf("frep: bounds require xmin < xmax (got %g, %g): %w", d.XMin, d.XMax, ErrInvalidDocument)
	}
	if !(d.YMin < d.YMax) {
		return fmt.Errorf("frep: bounds require ymin < ymax (got %g, %g): %w", d.YMin, d.YMax, ErrInvalidDocument)
	}
	if !(d.MMPerUnit > 0) {
		return fmt.Errorf("frep: mm_per_unit must be positive (got %g): %w", d.MMPerUnit, ErrInvalidDocument)
	}
	if len(d.Layers) == 0 {
		return fmt.Errorf("frep: document has no layers: %w", ErrInvalidDocument)
	}
	if d.Function == "" {
		return fmt.Errorf("frep: document has no function: %w", ErrInvalidDocument)
	}
	return nil
}

// ZRange returns the minimum and maximum layer heights. The intensity
// gradient for multi-layer documents is normalized over this range.
func (d *Document) ZRange() (zmin, zmax float64) {
	zmin, zmax = d.Layers[0], d.Layers[0]
	for _, z := range d.Layers[1:] {
		if z < zmin {
			zmin = z
		}
		if z > zmax {
			zmax = z
		}
	}
	return zmin, zmax
}
